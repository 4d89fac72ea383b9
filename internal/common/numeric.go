package common

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// AtoiDefault converts the provided string to an integer falling back to the
// default when parsing fails.
func AtoiDefault(value string, def int) int {
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

// DecimalOrZero parses a user-entered numeric field. Empty or unparseable
// input yields zero rather than an error, so a half-typed amount never fails
// the request.
func DecimalOrZero(value string) decimal.Decimal {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

// DecimalPtr parses an optional numeric field. Empty input yields nil,
// unparseable input yields a zero value.
func DecimalPtr(value string) *decimal.Decimal {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	parsed := DecimalOrZero(trimmed)
	return &parsed
}

// JSONScalar renders a raw JSON value as its scalar text: quotes stripped,
// null and absent values as the empty string.
func JSONScalar(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	if s == "null" {
		return ""
	}
	return s
}
