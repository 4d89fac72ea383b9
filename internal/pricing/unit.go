package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// UnitKind discriminates the unit variants a line item can carry.
type UnitKind string

const (
	// UnitNone marks a line without any unit selection.
	UnitNone UnitKind = "none"
	// UnitSimple is a single named unit with no conversion partner.
	UnitSimple UnitKind = "simple"
	// UnitConvertible pairs a base unit with a secondary unit related by a fixed factor.
	UnitConvertible UnitKind = "convertible"
	// UnitCustom is a free-text unit label entered by the user.
	UnitCustom UnitKind = "custom"
)

// Unit is the tagged unit variant resolved once at the data-access boundary.
// The engine never branches on raw unit strings.
type Unit struct {
	Kind      UnitKind
	Name      string
	Base      string
	Secondary string
	// Factor is the number of base units contained in one secondary unit.
	Factor decimal.Decimal
	Label  string
}

// NoUnit returns the empty unit selection.
func NoUnit() Unit {
	return Unit{Kind: UnitNone}
}

// SimpleUnit returns a unit with a single name and no conversion.
func SimpleUnit(name string) Unit {
	return Unit{Kind: UnitSimple, Name: strings.TrimSpace(name)}
}

// ConvertibleUnit returns a base/secondary unit pair. A non-positive factor
// still produces a unit, but conversions through it are skipped.
func ConvertibleUnit(base, secondary string, factor decimal.Decimal) Unit {
	return Unit{
		Kind:      UnitConvertible,
		Base:      strings.TrimSpace(base),
		Secondary: strings.TrimSpace(secondary),
		Factor:    factor,
	}
}

// CustomUnit returns a free-text unit label.
func CustomUnit(label string) Unit {
	return Unit{Kind: UnitCustom, Label: strings.TrimSpace(label)}
}

// CanConvert reports whether the unit carries a usable conversion.
func (u Unit) CanConvert() bool {
	return u.Kind == UnitConvertible && u.Factor.IsPositive() && u.Base != "" && u.Secondary != ""
}

// IsBase reports whether name refers to the base unit.
func (u Unit) IsBase(name string) bool {
	return u.Kind == UnitConvertible && u.Base != "" && strings.EqualFold(strings.TrimSpace(name), u.Base)
}

// IsSecondary reports whether name refers to the secondary unit.
func (u Unit) IsSecondary(name string) bool {
	return u.Kind == UnitConvertible && u.Secondary != "" && strings.EqualFold(strings.TrimSpace(name), u.Secondary)
}
