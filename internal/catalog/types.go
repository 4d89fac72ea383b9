package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bizbook/internal/pricing"
)

// Item is a catalog entry carrying the unit configuration and the three
// stored prices the pricing engine consumes.
type Item struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Sku  string    `json:"sku,omitempty"`

	UnitKind      pricing.UnitKind `json:"unit_kind"`
	BaseUnit      string           `json:"base_unit,omitempty"`
	SecondaryUnit string           `json:"secondary_unit,omitempty"`
	UnitFactor    decimal.Decimal  `json:"unit_factor"`
	UnitLabel     string           `json:"unit_label,omitempty"`

	PurchasePrice      decimal.Decimal       `json:"purchase_price"`
	PurchasePriceUnit  pricing.PriceUnitKind `json:"purchase_price_unit"`
	SalePrice          decimal.Decimal       `json:"sale_price"`
	SalePriceUnit      pricing.PriceUnitKind `json:"sale_price_unit"`
	WholesalePrice     decimal.Decimal       `json:"wholesale_price"`
	WholesalePriceUnit pricing.PriceUnitKind `json:"wholesale_price_unit"`
	MinWholesaleQty    decimal.Decimal       `json:"min_wholesale_qty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Unit resolves the stored unit columns into the tagged unit variant.
func (i Item) Unit() pricing.Unit {
	switch i.UnitKind {
	case pricing.UnitSimple:
		return pricing.SimpleUnit(i.BaseUnit)
	case pricing.UnitConvertible:
		return pricing.ConvertibleUnit(i.BaseUnit, i.SecondaryUnit, i.UnitFactor)
	case pricing.UnitCustom:
		return pricing.CustomUnit(i.UnitLabel)
	default:
		return pricing.NoUnit()
	}
}

// Pricing assembles the engine view of the item.
func (i Item) Pricing() pricing.ItemPricing {
	ip := pricing.NewItemPricing(i.Unit(), i.PurchasePrice, i.SalePrice, i.WholesalePrice, i.MinWholesaleQty)
	if i.PurchasePriceUnit != "" {
		ip.Purchase.PerUnit = i.PurchasePriceUnit
	}
	if i.SalePriceUnit != "" {
		ip.Sale.PerUnit = i.SalePriceUnit
	}
	if i.WholesalePriceUnit != "" {
		ip.Wholesale.PerUnit = i.WholesalePriceUnit
	}
	return ip
}

// ItemInput is the create/update payload for catalog items.
type ItemInput struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	Sku  string `json:"sku" validate:"omitempty,max=100"`

	UnitKind      string          `json:"unit_kind" validate:"omitempty,oneof=none simple convertible custom"`
	BaseUnit      string          `json:"base_unit" validate:"omitempty,max=50"`
	SecondaryUnit string          `json:"secondary_unit" validate:"omitempty,max=50"`
	UnitFactor    decimal.Decimal `json:"unit_factor"`
	UnitLabel     string          `json:"unit_label" validate:"omitempty,max=100"`

	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	PurchasePriceUnit  string          `json:"purchase_price_unit" validate:"omitempty,oneof=base secondary"`
	SalePrice          decimal.Decimal `json:"sale_price"`
	SalePriceUnit      string          `json:"sale_price_unit" validate:"omitempty,oneof=base secondary"`
	WholesalePrice     decimal.Decimal `json:"wholesale_price"`
	WholesalePriceUnit string          `json:"wholesale_price_unit" validate:"omitempty,oneof=base secondary"`
	MinWholesaleQty    decimal.Decimal `json:"min_wholesale_qty"`
}

// ListParams captures filters for item listing.
type ListParams struct {
	Query string
	Page  int
	Limit int
}

// ListResult contains list data plus pagination metadata.
type ListResult struct {
	Items []Item
	Total int64
	Page  int
	Limit int
}
