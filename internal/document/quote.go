package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bizbook/internal/pricing"
)

// PricingLookup resolves catalog pricing by item name. Absence is reported
// via found, not an error.
type PricingLookup interface {
	PricingFor(ctx context.Context, name string) (pricing.ItemPricing, bool, error)
}

// BuildQuote prices the input for the document type. Catalog-bound items are
// always priced from the catalog, with unit conversion and the wholesale tier,
// so a recompute supersedes whatever price the client typed. A typed unit
// price survives only for items the catalog does not know; unknown items
// without one price at zero.
func BuildQuote(ctx context.Context, lookup PricingLookup, typ Type, input Input) (Quote, error) {
	kind := typ.PriceKind()
	lines := make([]pricing.Line, 0, len(input.Lines))
	for _, in := range input.Lines {
		line := pricing.Line{
			ItemName: strings.TrimSpace(in.ItemName),
			Quantity: in.Quantity,
			Unit:     strings.TrimSpace(in.Unit),
		}
		bound := false
		if lookup != nil {
			ip, found, err := lookup.PricingFor(ctx, line.ItemName)
			if err != nil {
				return Quote{}, fmt.Errorf("resolve price for %q: %w", line.ItemName, err)
			}
			if found {
				line.UnitPrice = pricing.ResolveQuantityTierPrice(ip, line.Quantity, line.Unit, kind)
				bound = true
			}
		}
		if !bound && in.UnitPrice != nil {
			line.UnitPrice = *in.UnitPrice
		}
		switch {
		case in.DiscountPercent != nil:
			line.SetDiscountPercent(*in.DiscountPercent)
		case in.DiscountAmount != nil:
			line.SetDiscountAmount(*in.DiscountAmount)
		default:
			line.Recompute()
		}
		lines = append(lines, line)
	}

	totals := pricing.ComputeDocumentTotals(lines, adjustment(input.DiscountKind, input.DiscountValue), adjustment(input.TaxKind, input.TaxValue))

	quote := Quote{Lines: make([]Line, 0, len(lines)), Totals: totals}
	for _, l := range lines {
		quote.Lines = append(quote.Lines, Line{
			ItemName:        l.ItemName,
			Quantity:        l.Quantity,
			Unit:            l.Unit,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			DiscountAmount:  l.DiscountAmount,
			Amount:          l.Amount,
		})
	}
	if typ.CarriesPayment() {
		quote.PaidAmount, quote.Credit = pricing.ClampPayment(input.PaidAmount, totals.GrandTotal)
	}
	return quote, nil
}

func adjustment(kind string, value decimal.Decimal) pricing.Adjustment {
	k := pricing.AdjustAmount
	if strings.EqualFold(strings.TrimSpace(kind), string(pricing.AdjustPercent)) {
		k = pricing.AdjustPercent
	}
	return pricing.Adjustment{Kind: k, Value: value}
}
