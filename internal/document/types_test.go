package document_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-bizbook/internal/document"
)

func TestInputDecodeLenientNumbers(t *testing.T) {
	payload := `{
		"lines": [
			{"item_name":"Rice","quantity":"abc","unit_price":"n/a","discount_percent":""},
			{"item_name":"Sugar","quantity":3,"unit_price":"1.5","discount_amount":"oops"}
		],
		"discount_kind":"percent","discount_value":"x",
		"tax_value":null,
		"paid_amount":"  "
	}`

	var input document.Input
	require.NoError(t, json.Unmarshal([]byte(payload), &input))
	require.Len(t, input.Lines, 2)

	first := input.Lines[0]
	require.True(t, first.Quantity.IsZero())
	require.NotNil(t, first.UnitPrice)
	require.True(t, first.UnitPrice.IsZero())
	require.Nil(t, first.DiscountPercent)

	second := input.Lines[1]
	require.Equal(t, "3", second.Quantity.String())
	require.Equal(t, "1.50", second.UnitPrice.StringFixed(2))
	require.NotNil(t, second.DiscountAmount)
	require.True(t, second.DiscountAmount.IsZero())

	require.True(t, input.DiscountValue.IsZero())
	require.True(t, input.TaxValue.IsZero())
	require.True(t, input.PaidAmount.IsZero())
}

func TestInputDecodeRejectsMalformedJSON(t *testing.T) {
	var input document.Input
	require.Error(t, json.Unmarshal([]byte(`{"lines":`), &input))
}
