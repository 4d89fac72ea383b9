package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-bizbook/internal/pricing"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func cartonOfBoxes(factor string) pricing.Unit {
	return pricing.ConvertibleUnit("Box", "Carton", dec(factor))
}

func TestResolveUnitPriceConversion(t *testing.T) {
	item := pricing.NewItemPricing(cartonOfBoxes("12"), dec("10"), dec("150"), dec("0"), dec("0"))

	t.Run("base keyed price to secondary unit", func(t *testing.T) {
		got := pricing.ResolveUnitPrice(item, "Carton", pricing.PricePurchase)
		require.Equal(t, "120.00", got.StringFixed(2))
	})

	t.Run("secondary keyed price to base unit", func(t *testing.T) {
		got := pricing.ResolveUnitPrice(item, "Box", pricing.PriceSale)
		require.Equal(t, "12.50", got.StringFixed(2))
	})

	t.Run("price keyed to the target unit passes through", func(t *testing.T) {
		require.True(t, pricing.ResolveUnitPrice(item, "Box", pricing.PricePurchase).Equal(dec("10")))
		require.True(t, pricing.ResolveUnitPrice(item, "Carton", pricing.PriceSale).Equal(dec("150")))
	})

	t.Run("unknown target unit passes through", func(t *testing.T) {
		require.True(t, pricing.ResolveUnitPrice(item, "Pallet", pricing.PriceSale).Equal(dec("150")))
	})
}

func TestResolveUnitPriceDegenerateConversion(t *testing.T) {
	zeroFactor := pricing.NewItemPricing(cartonOfBoxes("0"), dec("10"), dec("150"), dec("0"), dec("0"))
	require.True(t, pricing.ResolveUnitPrice(zeroFactor, "Box", pricing.PriceSale).Equal(dec("150")))

	simple := pricing.NewItemPricing(pricing.SimpleUnit("Piece"), dec("10"), dec("15"), dec("0"), dec("0"))
	require.True(t, pricing.ResolveUnitPrice(simple, "Piece", pricing.PriceSale).Equal(dec("15")))

	custom := pricing.NewItemPricing(pricing.CustomUnit("Bundle"), dec("10"), dec("15"), dec("0"), dec("0"))
	require.True(t, pricing.ResolveUnitPrice(custom, "Bundle", pricing.PriceSale).Equal(dec("15")))
}

func TestUnitPriceRoundTrip(t *testing.T) {
	item := pricing.NewItemPricing(cartonOfBoxes("7"), dec("13.37"), dec("99.99"), dec("0"), dec("0"))

	secondary := pricing.ResolveUnitPrice(item, "Carton", pricing.PricePurchase)
	back := secondary.DivRound(dec("7"), 2)
	diff := back.Sub(dec("13.37")).Abs()
	require.True(t, diff.LessThanOrEqual(dec("0.01")), "round trip drift %s", diff)
}

func TestQuantityInBaseUnits(t *testing.T) {
	unit := cartonOfBoxes("12")
	require.Equal(t, "24", pricing.QuantityInBaseUnits(unit, dec("2"), "Carton").String())
	// converted quantities round to whole units
	require.Equal(t, "18", pricing.QuantityInBaseUnits(unit, dec("1.5"), "Carton").String())
	require.Equal(t, "3", pricing.QuantityInBaseUnits(unit, dec("3"), "Box").String())
	require.Equal(t, "5", pricing.QuantityInBaseUnits(pricing.SimpleUnit("Piece"), dec("5"), "Piece").String())
}

func TestQuantityTierBoundary(t *testing.T) {
	item := pricing.NewItemPricing(pricing.SimpleUnit("Piece"), dec("80"), dec("100"), dec("90"), dec("10"))

	below := pricing.ResolveQuantityTierPrice(item, dec("9"), "Piece", pricing.PriceSale)
	require.True(t, below.Equal(dec("100")))

	at := pricing.ResolveQuantityTierPrice(item, dec("10"), "Piece", pricing.PriceSale)
	require.True(t, at.Equal(dec("90")))
}

func TestQuantityTierChecksThresholdInBaseUnits(t *testing.T) {
	item := pricing.NewItemPricing(cartonOfBoxes("12"), dec("8"), dec("120"), dec("7"), dec("10"))

	// one carton is 12 boxes, above the 10-box threshold: wholesale, converted
	// to the carton the line displays.
	got := pricing.ResolveQuantityTierPrice(item, dec("1"), "Carton", pricing.PriceSale)
	require.Equal(t, "84.00", got.StringFixed(2))

	// nine boxes stay below the threshold.
	got = pricing.ResolveQuantityTierPrice(item, dec("9"), "Box", pricing.PriceSale)
	require.Equal(t, "10.00", got.StringFixed(2))
}

func TestQuantityTierSkippedWithoutWholesalePrice(t *testing.T) {
	item := pricing.NewItemPricing(pricing.SimpleUnit("Piece"), dec("80"), dec("100"), dec("0"), dec("10"))
	got := pricing.ResolveQuantityTierPrice(item, dec("50"), "Piece", pricing.PriceSale)
	require.True(t, got.Equal(dec("100")))
}

func TestQuantityTierSkippedWithoutThreshold(t *testing.T) {
	// a wholesale price with a zero threshold is an unconfigured tier, not
	// a tier that applies from quantity zero
	item := pricing.NewItemPricing(pricing.SimpleUnit("Piece"), dec("80"), dec("100"), dec("90"), dec("0"))
	got := pricing.ResolveQuantityTierPrice(item, dec("50"), "Piece", pricing.PriceSale)
	require.True(t, got.Equal(dec("100")))
}
