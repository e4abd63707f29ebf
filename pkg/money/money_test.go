package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"2850000", 285000000},
		{"0", 0},
		{"99.5", 9950},
		{"0.01", 1},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToMinorUnits(decimal.RequireFromString(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToMinorUnitsRejectsSubMinorPrecision(t *testing.T) {
	_, err := ToMinorUnits(decimal.RequireFromString("10.005"))
	assert.Error(t, err)
}

func TestFromMinorUnits(t *testing.T) {
	assert.True(t, FromMinorUnits(285000000).Equal(decimal.NewFromInt(2850000)))
	assert.True(t, FromMinorUnits(9950).Equal(decimal.RequireFromString("99.50")))
}

func TestPercent(t *testing.T) {
	got := Percent(decimal.NewFromInt(3000000), decimal.NewFromInt(10))
	assert.True(t, got.Equal(decimal.NewFromInt(300000)), got.String())

	got = Percent(decimal.RequireFromString("333.33"), decimal.NewFromInt(15))
	assert.True(t, got.Equal(decimal.NewFromInt(50)), got.String())
}

func TestNonNegative(t *testing.T) {
	assert.True(t, NonNegative(decimal.NewFromInt(-5)).IsZero())
	assert.True(t, NonNegative(decimal.NewFromInt(5)).Equal(decimal.NewFromInt(5)))
}

func TestParse(t *testing.T) {
	d, err := Parse("1500000")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.NewFromInt(1500000)))

	_, err = Parse("abc")
	assert.Error(t, err)
}
