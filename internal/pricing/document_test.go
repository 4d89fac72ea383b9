package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-bizbook/internal/pricing"
)

func TestLineRecomputeIsIdempotent(t *testing.T) {
	line := pricing.Line{Quantity: dec("3"), UnitPrice: dec("19.99")}
	line.SetDiscountPercent(dec("5"))

	first := line.Amount
	line.Recompute()
	line.Recompute()
	require.True(t, line.Amount.Equal(first))
}

func TestLineAmountNeverNegative(t *testing.T) {
	line := pricing.Line{Quantity: dec("2"), UnitPrice: dec("10")}
	line.SetDiscountAmount(dec("500"))
	require.True(t, line.Amount.GreaterThanOrEqual(decimal.Zero))
	require.Equal(t, "0.00", line.Amount.StringFixed(2))

	line = pricing.Line{Quantity: dec("2"), UnitPrice: dec("10")}
	line.SetDiscountPercent(dec("250"))
	require.Equal(t, "0.00", line.Amount.StringFixed(2))
}

func TestDiscountPercentAmountConsistency(t *testing.T) {
	line := pricing.Line{Quantity: dec("4"), UnitPrice: dec("12.50")}
	line.SetDiscountPercent(dec("10"))
	require.NotNil(t, line.DiscountAmount)
	require.Equal(t, "5.00", line.DiscountAmount.StringFixed(2))
	require.Equal(t, "45.00", line.Amount.StringFixed(2))

	line = pricing.Line{Quantity: dec("4"), UnitPrice: dec("12.50")}
	line.SetDiscountAmount(dec("5"))
	require.NotNil(t, line.DiscountPercent)
	require.Equal(t, "10.00", line.DiscountPercent.StringFixed(2))
}

func TestDiscountAmountOnZeroQuantity(t *testing.T) {
	line := pricing.Line{Quantity: decimal.Zero, UnitPrice: dec("10")}
	line.SetDiscountAmount(dec("25"))
	require.NotNil(t, line.DiscountPercent)
	require.True(t, line.DiscountPercent.IsZero())
	require.Equal(t, "0.00", line.Amount.StringFixed(2))
}

func TestEmptyFieldsTreatedAsZero(t *testing.T) {
	line := pricing.Line{}
	line.Recompute()
	require.Equal(t, "0.00", line.Amount.StringFixed(2))
}

func TestComputeDocumentTotals(t *testing.T) {
	tenPct := dec("10")
	lines := []pricing.Line{
		{Quantity: dec("2"), UnitPrice: dec("50"), DiscountPercent: &tenPct},
		{Quantity: dec("1"), UnitPrice: dec("30")},
	}
	totals := pricing.ComputeDocumentTotals(lines,
		pricing.Adjustment{Kind: pricing.AdjustPercent, Value: dec("5")},
		pricing.Adjustment{Kind: pricing.AdjustPercent, Value: dec("10")},
	)

	require.Equal(t, "130.00", totals.SubTotal.StringFixed(2))
	require.Equal(t, "10.00", totals.ItemDiscountTotal.StringFixed(2))
	require.Equal(t, "6.50", totals.GlobalDiscount.StringFixed(2))
	require.Equal(t, "16.50", totals.TotalDiscount.StringFixed(2))
	require.Equal(t, "11.35", totals.TaxAmount.StringFixed(2))
	require.Equal(t, "124.85", totals.GrandTotal.StringFixed(2))

	require.Equal(t, "90.00", lines[0].Amount.StringFixed(2))
	require.Equal(t, "30.00", lines[1].Amount.StringFixed(2))
}

func TestComputeDocumentTotalsFlatAdjustments(t *testing.T) {
	lines := []pricing.Line{{Quantity: dec("1"), UnitPrice: dec("100")}}
	totals := pricing.ComputeDocumentTotals(lines,
		pricing.Adjustment{Kind: pricing.AdjustAmount, Value: dec("20")},
		pricing.Adjustment{Kind: pricing.AdjustAmount, Value: dec("5")},
	)
	require.Equal(t, "100.00", totals.SubTotal.StringFixed(2))
	require.Equal(t, "20.00", totals.TotalDiscount.StringFixed(2))
	require.Equal(t, "5.00", totals.TaxAmount.StringFixed(2))
	require.Equal(t, "85.00", totals.GrandTotal.StringFixed(2))
}

func TestGrandTotalFlooredAtZero(t *testing.T) {
	lines := []pricing.Line{{Quantity: dec("1"), UnitPrice: dec("10")}}
	totals := pricing.ComputeDocumentTotals(lines,
		pricing.Adjustment{Kind: pricing.AdjustAmount, Value: dec("500")},
		pricing.Adjustment{},
	)
	require.Equal(t, "0.00", totals.GrandTotal.StringFixed(2))
}

func TestGlobalDiscountUsesGrossSubtotal(t *testing.T) {
	// The 5% global discount applies to the 130 gross subtotal (6.50), not to
	// the 120 net of per-line discounts (6.00).
	tenPct := dec("10")
	lines := []pricing.Line{
		{Quantity: dec("2"), UnitPrice: dec("50"), DiscountPercent: &tenPct},
		{Quantity: dec("1"), UnitPrice: dec("30")},
	}
	totals := pricing.ComputeDocumentTotals(lines,
		pricing.Adjustment{Kind: pricing.AdjustPercent, Value: dec("5")},
		pricing.Adjustment{},
	)
	require.Equal(t, "6.50", totals.GlobalDiscount.StringFixed(2))
}

func TestClampPayment(t *testing.T) {
	paid, credit := pricing.ClampPayment(dec("200"), dec("124.85"))
	require.Equal(t, "124.85", paid.StringFixed(2))
	require.Equal(t, "0.00", credit.StringFixed(2))

	paid, credit = pricing.ClampPayment(dec("-10"), dec("124.85"))
	require.Equal(t, "0.00", paid.StringFixed(2))
	require.Equal(t, "124.85", credit.StringFixed(2))

	paid, credit = pricing.ClampPayment(dec("100"), dec("124.85"))
	require.Equal(t, "100.00", paid.StringFixed(2))
	require.Equal(t, "24.85", credit.StringFixed(2))
}
