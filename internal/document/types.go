package document

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bizbook/internal/common"
	"github.com/noah-isme/backend-bizbook/internal/pricing"
)

// Type discriminates the commercial documents the business books.
type Type string

const (
	// TypeSaleInvoice bills a customer and can carry a payment.
	TypeSaleInvoice Type = "sale_invoice"
	// TypePurchaseBill records a supplier bill and can carry a payment.
	TypePurchaseBill Type = "purchase_bill"
	// TypePurchaseOrder is an intent to buy; it never carries a payment.
	TypePurchaseOrder Type = "purchase_order"
)

// PriceKind returns which stored price quotes for this document resolve.
func (t Type) PriceKind() pricing.PriceKind {
	if t == TypeSaleInvoice {
		return pricing.PriceSale
	}
	return pricing.PricePurchase
}

// CarriesPayment reports whether the document type books money movement.
func (t Type) CarriesPayment() bool {
	return t != TypePurchaseOrder
}

// Line is a persisted document line.
type Line struct {
	ItemName        string           `json:"item_name"`
	Quantity        decimal.Decimal  `json:"quantity"`
	Unit            string           `json:"unit,omitempty"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount,omitempty"`
	Amount          decimal.Decimal  `json:"amount"`
}

// Document is a persisted sale invoice, purchase bill, or purchase order.
type Document struct {
	ID      uuid.UUID  `json:"id"`
	Type    Type       `json:"type"`
	Number  string     `json:"number"`
	PartyID *uuid.UUID `json:"party_id,omitempty"`

	Lines []Line `json:"lines"`

	DiscountKind  string          `json:"discount_kind,omitempty"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	TaxKind       string          `json:"tax_kind,omitempty"`
	TaxValue      decimal.Decimal `json:"tax_value"`

	SubTotal          decimal.Decimal `json:"sub_total"`
	ItemDiscountTotal decimal.Decimal `json:"item_discount_total"`
	GlobalDiscount    decimal.Decimal `json:"global_discount"`
	TotalDiscount     decimal.Decimal `json:"total_discount"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	GrandTotal        decimal.Decimal `json:"grand_total"`

	PaidAmount decimal.Decimal `json:"paid_amount"`
	Credit     decimal.Decimal `json:"credit"`
	AccountID  *uuid.UUID      `json:"account_id,omitempty"`

	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LineInput is one line of a quote or document payload. A missing unit price
// is resolved from the catalog; an unknown item prices at zero.
type LineInput struct {
	ItemName        string           `json:"item_name" validate:"required,min=1,max=200"`
	Quantity        decimal.Decimal  `json:"quantity"`
	Unit            string           `json:"unit" validate:"omitempty,max=50"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount,omitempty"`
}

// UnmarshalJSON decodes numeric fields leniently: empty or non-numeric values
// become zero (nil for the optional ones), never a decode error.
func (l *LineInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		ItemName        string          `json:"item_name"`
		Quantity        json.RawMessage `json:"quantity"`
		Unit            string          `json:"unit"`
		UnitPrice       json.RawMessage `json:"unit_price"`
		DiscountPercent json.RawMessage `json:"discount_percent"`
		DiscountAmount  json.RawMessage `json:"discount_amount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.ItemName = raw.ItemName
	l.Unit = raw.Unit
	l.Quantity = common.DecimalOrZero(common.JSONScalar(raw.Quantity))
	l.UnitPrice = common.DecimalPtr(common.JSONScalar(raw.UnitPrice))
	l.DiscountPercent = common.DecimalPtr(common.JSONScalar(raw.DiscountPercent))
	l.DiscountAmount = common.DecimalPtr(common.JSONScalar(raw.DiscountAmount))
	return nil
}

// Input is the quote/create payload for documents.
type Input struct {
	PartyID *uuid.UUID  `json:"party_id,omitempty"`
	Lines   []LineInput `json:"lines" validate:"required,min=1,dive"`

	DiscountKind  string          `json:"discount_kind" validate:"omitempty,oneof=percent amount"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	TaxKind       string          `json:"tax_kind" validate:"omitempty,oneof=percent amount"`
	TaxValue      decimal.Decimal `json:"tax_value"`

	PaidAmount decimal.Decimal `json:"paid_amount"`
	AccountID  *uuid.UUID      `json:"account_id,omitempty"`
	Note       string          `json:"note" validate:"omitempty,max=1000"`
}

// UnmarshalJSON applies the same lenient numeric decoding as LineInput to the
// document-level discount, tax and payment fields.
func (in *Input) UnmarshalJSON(data []byte) error {
	var raw struct {
		PartyID       *uuid.UUID      `json:"party_id"`
		Lines         []LineInput     `json:"lines"`
		DiscountKind  string          `json:"discount_kind"`
		DiscountValue json.RawMessage `json:"discount_value"`
		TaxKind       string          `json:"tax_kind"`
		TaxValue      json.RawMessage `json:"tax_value"`
		PaidAmount    json.RawMessage `json:"paid_amount"`
		AccountID     *uuid.UUID      `json:"account_id"`
		Note          string          `json:"note"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	in.PartyID = raw.PartyID
	in.Lines = raw.Lines
	in.DiscountKind = raw.DiscountKind
	in.DiscountValue = common.DecimalOrZero(common.JSONScalar(raw.DiscountValue))
	in.TaxKind = raw.TaxKind
	in.TaxValue = common.DecimalOrZero(common.JSONScalar(raw.TaxValue))
	in.PaidAmount = common.DecimalOrZero(common.JSONScalar(raw.PaidAmount))
	in.AccountID = raw.AccountID
	in.Note = raw.Note
	return nil
}

// Quote is the computed but unpersisted pricing of an Input.
type Quote struct {
	Lines    []Line         `json:"lines"`
	Totals   pricing.Totals `json:"totals"`
	Currency string         `json:"currency,omitempty"`
	// PaidAmount is the payment clamped into [0, grand total].
	PaidAmount decimal.Decimal `json:"paid_amount"`
	// Credit is the unpaid remainder owed on the document.
	Credit decimal.Decimal `json:"credit"`
}

// ListParams captures filters for document listing.
type ListParams struct {
	Type    Type
	PartyID *uuid.UUID
	Page    int
	Limit   int
}

// ListResult contains list data plus pagination metadata.
type ListResult struct {
	Documents []Document
	Total     int64
	Page      int
	Limit     int
}
