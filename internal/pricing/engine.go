// Package pricing computes line and document totals for sale and purchase
// documents: per-unit price resolution across base/secondary units, wholesale
// tier selection, per-line discounts and document-level discount/tax
// aggregation. Every function is pure; malformed input degrades to a safe
// numeric default instead of returning an error, because callers feed it
// half-typed form state.
package pricing

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// ResolveUnitPrice converts the catalog price of kind to the target unit.
// When the item's unit carries no usable conversion, or the target is neither
// the base nor the secondary unit, the stored price is returned unchanged.
// Converted prices are rounded half-up to 2 decimal places.
func ResolveUnitPrice(item ItemPricing, targetUnit string, kind PriceKind) decimal.Decimal {
	p := item.price(kind)
	if !item.Unit.CanConvert() {
		return p.Amount
	}
	switch {
	case item.Unit.IsBase(targetUnit):
		if p.PerUnit == PerBase {
			return p.Amount
		}
		return p.Amount.DivRound(item.Unit.Factor, 2)
	case item.Unit.IsSecondary(targetUnit):
		if p.PerUnit == PerSecondary {
			return p.Amount
		}
		return p.Amount.Mul(item.Unit.Factor).Round(2)
	default:
		return p.Amount
	}
}

// QuantityInBaseUnits expresses qty, entered in qtyUnit, as whole base units.
// Quantities already in the base unit (or in any unit without a conversion)
// pass through unchanged.
func QuantityInBaseUnits(unit Unit, qty decimal.Decimal, qtyUnit string) decimal.Decimal {
	if !unit.CanConvert() || !unit.IsSecondary(qtyUnit) {
		return qty
	}
	return qty.Mul(unit.Factor).Round(0)
}

// ResolveQuantityTierPrice picks between the wholesale and the regular price
// of kind based on the quantity threshold, then converts the winner to the
// line's current unit. The threshold comparison always happens in base units.
// A zero threshold means no tier is configured, so the regular price applies
// even when a wholesale price is stored.
// This supersedes any manually typed price whenever quantity or unit changes.
func ResolveQuantityTierPrice(item ItemPricing, qty decimal.Decimal, qtyUnit string, kind PriceKind) decimal.Decimal {
	baseQty := QuantityInBaseUnits(item.Unit, qty, qtyUnit)
	if item.MinWholesaleQty.IsPositive() &&
		item.Wholesale.Amount.IsPositive() &&
		baseQty.Cmp(item.MinWholesaleQty) >= 0 {
		return ResolveUnitPrice(item, qtyUnit, PriceWholesale)
	}
	return ResolveUnitPrice(item, qtyUnit, kind)
}

func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
