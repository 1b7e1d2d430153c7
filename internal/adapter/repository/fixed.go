package repository

import (
	"context"
	"time"

	"exchange-rate-cache/internal/domain/model"
)

// MockValidity is how long a fixed rate table stays valid.
const MockValidity = 24 * time.Hour

// MockExchangeRates approximates CZK cross rates as of November 2024.
var MockExchangeRates = []model.ExchangeRate{
	{FromCurrency: model.CZK, ToCurrency: model.EUR, Rate: 25.0},
	{FromCurrency: model.CZK, ToCurrency: model.USD, Rate: 23.0},
	{FromCurrency: model.CZK, ToCurrency: model.PLN, Rate: 5.5},
	{FromCurrency: model.EUR, ToCurrency: model.CZK, Rate: 0.04},
	{FromCurrency: model.EUR, ToCurrency: model.USD, Rate: 1.09},
	{FromCurrency: model.EUR, ToCurrency: model.PLN, Rate: 4.35},
	{FromCurrency: model.USD, ToCurrency: model.CZK, Rate: 0.043},
	{FromCurrency: model.USD, ToCurrency: model.EUR, Rate: 0.92},
	{FromCurrency: model.USD, ToCurrency: model.PLN, Rate: 4.0},
	{FromCurrency: model.PLN, ToCurrency: model.CZK, Rate: 0.18},
	{FromCurrency: model.PLN, ToCurrency: model.EUR, Rate: 0.23},
	{FromCurrency: model.PLN, ToCurrency: model.USD, Rate: 0.25},
}

// FixedSource serves a hard-coded table with a long validity window. It
// replaces the network path for deterministic tests and offline work.
type FixedSource struct {
	rates    []model.ExchangeRate
	validity time.Duration
	now      func() time.Time
}

func NewFixedSource(rates []model.ExchangeRate, validity time.Duration) *FixedSource {
	if rates == nil {
		rates = MockExchangeRates
	}
	if validity <= 0 {
		validity = MockValidity
	}
	return &FixedSource{rates: rates, validity: validity, now: time.Now}
}

func (f *FixedSource) Name() string {
	return "fixed"
}

// Current returns the table stamped with a fresh validity window.
func (f *FixedSource) Current() model.CachedRateSet {
	rates := make([]model.ExchangeRate, len(f.rates))
	copy(rates, f.rates)
	return model.CachedRateSet{
		Rates:      rates,
		ValidUntil: f.now().Add(f.validity),
	}
}

func (f *FixedSource) FetchRates(ctx context.Context) (*model.CachedRateSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	set := f.Current()
	return &set, nil
}
