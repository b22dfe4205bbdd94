package application

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	cases := []struct {
		raw      string
		number   float64
		quantity int64
	}{
		{"7", 7, 7},
		{" 12 ", 12, 12},
		{"abc", 0, 0},
		{"", 0, 0},
		{"3.75", 3.75, 3},
		{"-4", 0, 0},
		{"NaN", 0, 0},
		{"Infinity", 0, 0},
		{"1e3", 1000, 1000},
		{"1e300", 1e300, 0},
		{"0x10", 16, 16},
		{"0b101", 5, 5},
		{"0o17", 15, 15},
		{"0x1p4", 0, 0},
		{"-0x10", 0, 0},
		{"1_000", 0, 0},
		{"+2.5", 2.5, 2},
		{".5", 0.5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			require.Equal(t, tc.number, CoerceNumber(tc.raw))
			require.Equal(t, tc.quantity, CoerceQuantity(tc.raw))
		})
	}
}

func TestCoerce_NegativeZeroIsPositiveZero(t *testing.T) {
	for _, raw := range []string{"-0", "-0.0", "-0e5"} {
		f := CoerceNumber(raw)
		require.Zero(t, f)
		require.False(t, math.Signbit(f), raw)
	}
}

func TestWholeCount(t *testing.T) {
	require.Equal(t, int64(3), wholeCount(3.9))
	require.Equal(t, int64(0), wholeCount(-2))
	require.Equal(t, int64(0), wholeCount(math.NaN()))
	require.Equal(t, int64(0), wholeCount(math.Inf(1)))
	require.Equal(t, int64(0), wholeCount(1e19))
	require.Equal(t, int64(maxQuantity), wholeCount(maxQuantity))
}
