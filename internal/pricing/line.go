package pricing

import "github.com/shopspring/decimal"

// Line is one user-editable document row. DiscountPercent and DiscountAmount
// are mutually derived; a nil pointer means the field is empty. Amount is
// always derived, never authoritative input.
type Line struct {
	ItemName        string
	Quantity        decimal.Decimal
	Unit            string
	UnitPrice       decimal.Decimal
	DiscountPercent *decimal.Decimal
	DiscountAmount  *decimal.Decimal
	Amount          decimal.Decimal
}

// OriginalAmount is the pre-discount line total.
func (l Line) OriginalAmount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// EffectiveDiscount is the discount actually applied to the line, clamped so
// the line amount never goes negative. Percent takes precedence when both
// fields are populated.
func (l Line) EffectiveDiscount() decimal.Decimal {
	original := l.OriginalAmount()
	var discount decimal.Decimal
	switch {
	case l.DiscountPercent != nil:
		discount = original.Mul(*l.DiscountPercent).DivRound(oneHundred, 2)
	case l.DiscountAmount != nil:
		discount = *l.DiscountAmount
	default:
		return decimal.Zero
	}
	if discount.Cmp(original) > 0 {
		return original
	}
	return maxZero(discount)
}

// Recompute derives Amount from the current field values. Calling it twice on
// an unchanged line yields the same result.
func (l *Line) Recompute() {
	l.Amount = maxZero(l.OriginalAmount().Sub(l.EffectiveDiscount())).Round(2)
}

// SetDiscountPercent stores the percent and derives the matching amount off
// the pre-discount total.
func (l *Line) SetDiscountPercent(percent decimal.Decimal) {
	percent = maxZero(percent)
	amount := l.OriginalAmount().Mul(percent).DivRound(oneHundred, 2)
	l.DiscountPercent = &percent
	l.DiscountAmount = &amount
	l.Recompute()
}

// SetDiscountAmount stores the amount and derives the matching percent. A
// zero pre-discount total yields percent 0, never a division error.
func (l *Line) SetDiscountAmount(amount decimal.Decimal) {
	amount = maxZero(amount)
	original := l.OriginalAmount()
	percent := decimal.Zero
	if original.IsPositive() {
		percent = amount.Mul(oneHundred).DivRound(original, 2)
	}
	l.DiscountAmount = &amount
	l.DiscountPercent = &percent
	l.Recompute()
}
