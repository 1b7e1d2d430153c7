package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRateMap_LastWriteWins(t *testing.T) {
	rates := []ExchangeRate{
		{FromCurrency: CZK, ToCurrency: EUR, Rate: 24.0},
		{FromCurrency: CZK, ToCurrency: USD, Rate: 23.0},
		{FromCurrency: EUR, ToCurrency: CZK, Rate: 0.04},
		{FromCurrency: CZK, ToCurrency: EUR, Rate: 25.0},
	}

	m := BuildRateMap(rates)

	rate, ok := m.Lookup(CZK, EUR)
	assert.True(t, ok)
	assert.Equal(t, 25.0, rate)

	rate, ok = m.Lookup(CZK, USD)
	assert.True(t, ok)
	assert.Equal(t, 23.0, rate)

	rate, ok = m.Lookup(EUR, CZK)
	assert.True(t, ok)
	assert.Equal(t, 0.04, rate)

	assert.Len(t, m, 2)
	assert.Len(t, m[CZK], 2)
}

func TestBuildRateMap_EveryPairMatchesLastOccurrence(t *testing.T) {
	rates := []ExchangeRate{
		{FromCurrency: USD, ToCurrency: EUR, Rate: 0.9},
		{FromCurrency: EUR, ToCurrency: USD, Rate: 1.1},
		{FromCurrency: USD, ToCurrency: EUR, Rate: 0.91},
		{FromCurrency: EUR, ToCurrency: USD, Rate: 1.09},
		{FromCurrency: USD, ToCurrency: EUR, Rate: 0.92},
	}

	m := BuildRateMap(rates)

	last := make(map[CurrencyPair]float64)
	for _, r := range rates {
		last[CurrencyPair{FromCurrency: r.FromCurrency, ToCurrency: r.ToCurrency}] = r.Rate
	}
	for pair, want := range last {
		got, ok := m.Lookup(pair.FromCurrency, pair.ToCurrency)
		assert.True(t, ok, pair.String())
		assert.Equal(t, want, got, pair.String())
	}
}

func TestBuildRateMap_DirectionalNoInverse(t *testing.T) {
	m := BuildRateMap([]ExchangeRate{{FromCurrency: CZK, ToCurrency: EUR, Rate: 25.0}})

	_, ok := m.Lookup(EUR, CZK)
	assert.False(t, ok)
}

func TestBuildRateMap_Empty(t *testing.T) {
	m := BuildRateMap(nil)

	assert.Empty(t, m)
	_, ok := m.Lookup(CZK, EUR)
	assert.False(t, ok)
}

func TestBuildRateMap_AcceptsMalformedEntries(t *testing.T) {
	m := BuildRateMap([]ExchangeRate{
		{FromCurrency: "", ToCurrency: EUR, Rate: math.Inf(1)},
		{FromCurrency: CZK, ToCurrency: EUR, Rate: -1},
	})

	rate, ok := m.Lookup("", EUR)
	assert.True(t, ok)
	assert.True(t, math.IsInf(rate, 1))

	rate, ok = m.Lookup(CZK, EUR)
	assert.True(t, ok)
	assert.Equal(t, -1.0, rate)
}
