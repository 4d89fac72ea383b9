package pricing

import "github.com/shopspring/decimal"

// PriceKind selects which catalog price a resolution applies to.
type PriceKind string

const (
	// PricePurchase is the buying price of an item.
	PricePurchase PriceKind = "purchase"
	// PriceSale is the regular selling price of an item.
	PriceSale PriceKind = "sale"
	// PriceWholesale is the selling price above the wholesale threshold.
	PriceWholesale PriceKind = "wholesale"
)

// PriceUnitKind states which unit a stored price is keyed to.
type PriceUnitKind string

const (
	// PerBase means the price is for one base unit.
	PerBase PriceUnitKind = "base"
	// PerSecondary means the price is for one secondary unit.
	PerSecondary PriceUnitKind = "secondary"
)

// Price is a catalog price together with the unit it is keyed to.
type Price struct {
	Amount  decimal.Decimal
	PerUnit PriceUnitKind
}

// ItemPricing is the read-only pricing view of a catalog item consumed by the
// engine. Which unit each price is keyed to is data, not convention baked into
// code; the defaults below reproduce the observed behaviour (purchase and
// wholesale prices per base unit, sale price per secondary unit).
type ItemPricing struct {
	Unit            Unit
	Purchase        Price
	Sale            Price
	Wholesale       Price
	MinWholesaleQty decimal.Decimal
}

// NewItemPricing builds an ItemPricing with the default price-unit keying.
func NewItemPricing(unit Unit, purchase, sale, wholesale, minWholesaleQty decimal.Decimal) ItemPricing {
	return ItemPricing{
		Unit:            unit,
		Purchase:        Price{Amount: purchase, PerUnit: PerBase},
		Sale:            Price{Amount: sale, PerUnit: PerSecondary},
		Wholesale:       Price{Amount: wholesale, PerUnit: PerBase},
		MinWholesaleQty: minWholesaleQty,
	}
}

func (ip ItemPricing) price(kind PriceKind) Price {
	switch kind {
	case PricePurchase:
		return ip.Purchase
	case PriceWholesale:
		return ip.Wholesale
	default:
		return ip.Sale
	}
}
