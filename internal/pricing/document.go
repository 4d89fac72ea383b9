package pricing

import "github.com/shopspring/decimal"

// AdjustmentKind states how a document-level adjustment value is interpreted.
type AdjustmentKind string

const (
	// AdjustPercent interprets the value as a percentage.
	AdjustPercent AdjustmentKind = "percent"
	// AdjustAmount interprets the value as a flat currency amount.
	AdjustAmount AdjustmentKind = "amount"
)

// Adjustment is a document-level discount or tax term.
type Adjustment struct {
	Kind  AdjustmentKind
	Value decimal.Decimal
}

// Totals aggregates the document-level computation results. All currency
// fields are rounded to 2 decimal places.
type Totals struct {
	SubTotal          decimal.Decimal `json:"sub_total"`
	ItemDiscountTotal decimal.Decimal `json:"item_discount_total"`
	GlobalDiscount    decimal.Decimal `json:"global_discount"`
	TotalDiscount     decimal.Decimal `json:"total_discount"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
}

// ComputeDocumentTotals recomputes all document aggregates from the full line
// set. The order of operations is fixed: the global discount is taken off the
// gross subtotal, not net of per-line discounts, and tax applies to the
// subtotal net of all discounts. The grand total never goes below zero.
func ComputeDocumentTotals(lines []Line, discount, tax Adjustment) Totals {
	var t Totals
	for i := range lines {
		lines[i].Recompute()
		t.SubTotal = t.SubTotal.Add(lines[i].OriginalAmount())
		t.ItemDiscountTotal = t.ItemDiscountTotal.Add(lines[i].EffectiveDiscount())
	}
	t.SubTotal = t.SubTotal.Round(2)
	t.ItemDiscountTotal = t.ItemDiscountTotal.Round(2)

	t.GlobalDiscount = applyAdjustment(discount, t.SubTotal)
	t.TotalDiscount = t.ItemDiscountTotal.Add(t.GlobalDiscount).Round(2)

	taxable := t.SubTotal.Sub(t.TotalDiscount)
	t.TaxAmount = applyAdjustment(tax, taxable)
	t.GrandTotal = maxZero(taxable.Add(t.TaxAmount)).Round(2)
	return t
}

// ClampPayment bounds paid to [0, grandTotal] and returns the clamped value
// together with the remaining credit balance.
func ClampPayment(paid, grandTotal decimal.Decimal) (clamped, credit decimal.Decimal) {
	clamped = maxZero(paid)
	if clamped.Cmp(grandTotal) > 0 {
		clamped = grandTotal
	}
	return clamped, maxZero(grandTotal.Sub(clamped)).Round(2)
}

func applyAdjustment(a Adjustment, base decimal.Decimal) decimal.Decimal {
	value := maxZero(a.Value)
	if a.Kind == AdjustPercent {
		return base.Mul(value).DivRound(oneHundred, 2)
	}
	return value.Round(2)
}
