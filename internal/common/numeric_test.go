package common_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-bizbook/internal/common"
)

func TestAtoiDefault(t *testing.T) {
	require.Equal(t, 7, common.AtoiDefault("", 7))
	require.Equal(t, 7, common.AtoiDefault("abc", 7))
	require.Equal(t, 42, common.AtoiDefault("42", 7))
	require.Equal(t, -3, common.AtoiDefault("-3", 7))
}

func TestDecimalOrZero(t *testing.T) {
	require.True(t, common.DecimalOrZero("").IsZero())
	require.True(t, common.DecimalOrZero("   ").IsZero())
	require.True(t, common.DecimalOrZero("abc").IsZero())
	require.Equal(t, "12.50", common.DecimalOrZero(" 12.5 ").StringFixed(2))
	require.Equal(t, "-3.00", common.DecimalOrZero("-3").StringFixed(2))
}

func TestDecimalPtr(t *testing.T) {
	require.Nil(t, common.DecimalPtr(""))
	require.Nil(t, common.DecimalPtr("  "))

	v := common.DecimalPtr("7.25")
	require.NotNil(t, v)
	require.Equal(t, "7.25", v.StringFixed(2))

	junk := common.DecimalPtr("n/a")
	require.NotNil(t, junk)
	require.True(t, junk.IsZero())
}

func TestJSONScalar(t *testing.T) {
	require.Equal(t, "12.5", common.JSONScalar([]byte("12.5")))
	require.Equal(t, "12.5", common.JSONScalar([]byte(`"12.5"`)))
	require.Equal(t, "", common.JSONScalar([]byte("null")))
	require.Equal(t, "", common.JSONScalar(nil))
}
