package odds

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		name     string
		price    any
		expected float64
		ok       bool
	}{
		{name: "Positive numeric", price: 130.0, expected: 100.0 / 230.0, ok: true},
		{name: "Negative numeric", price: -150.0, expected: 150.0 / 250.0, ok: true},
		{name: "Int price", price: 100, expected: 0.5, ok: true},
		{name: "Plus-prefixed string", price: "+130", expected: 100.0 / 230.0, ok: true},
		{name: "Minus-prefixed string", price: "-150", expected: 0.6, ok: true},
		{name: "EVEN token", price: "EVEN", expected: 0.5, ok: true},
		{name: "even lowercase", price: "even", expected: 0.5, ok: true},
		{name: "Bare numeric string", price: "250", expected: 100.0 / 350.0, ok: true},
		{name: "Garbage string", price: "o/u 1.5", ok: false},
		{name: "Zero price", price: 0.0, ok: false},
		{name: "Nil price", price: nil, ok: false},
		{name: "Raw number", price: json.RawMessage(`-110`), expected: 110.0 / 210.0, ok: true},
		{name: "Raw quoted string", price: json.RawMessage(`"+200"`), expected: 100.0 / 300.0, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ImpliedProbability(tt.price)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, got, 1e-9)
			}
		})
	}
}

func TestImpliedProbabilityStrictlyBetweenZeroAndOne(t *testing.T) {
	// Each side individually lies in (0,1) for finite nonzero prices; the two
	// sides need not sum to 1 (vig).
	for _, p := range []float64{-100000, -500, -150, -105, 100, 130, 500, 100000} {
		got, ok := ImpliedProbability(p)
		require.True(t, ok, "price %v", p)
		assert.Greater(t, got, 0.0, "price %v", p)
		assert.Less(t, got, 1.0, "price %v", p)
	}
}

func TestAmericanToDecimal(t *testing.T) {
	d, ok := AmericanToDecimal(150)
	require.True(t, ok)
	assert.InDelta(t, 2.5, d, 1e-9)

	d, ok = AmericanToDecimal(-150)
	require.True(t, ok)
	assert.InDelta(t, 1.0+100.0/150.0, d, 1e-9)

	_, ok = AmericanToDecimal(0)
	assert.False(t, ok)
}

func TestProbabilityToAmerican(t *testing.T) {
	a, ok := ProbabilityToAmerican(0.4)
	require.True(t, ok)
	assert.Equal(t, 150, a)

	a, ok = ProbabilityToAmerican(0.6)
	require.True(t, ok)
	assert.Equal(t, -150, a)

	_, ok = ProbabilityToAmerican(0)
	assert.False(t, ok)
	_, ok = ProbabilityToAmerican(1)
	assert.False(t, ok)
}
