package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exchange-rate-cache/internal/domain/model"
)

func TestFixedSource_DefaultsToMockTable(t *testing.T) {
	now := time.Date(2024, 11, 20, 12, 0, 0, 0, time.UTC)
	source := NewFixedSource(nil, 0)
	source.now = func() time.Time { return now }

	set, err := source.FetchRates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, MockExchangeRates, set.Rates)
	assert.Equal(t, now.Add(24*time.Hour), set.ValidUntil)
	assert.Equal(t, "fixed", source.Name())
}

func TestFixedSource_ReturnsCopy(t *testing.T) {
	source := NewFixedSource([]model.ExchangeRate{{FromCurrency: model.CZK, ToCurrency: model.EUR, Rate: 25}}, time.Hour)

	set := source.Current()
	set.Rates[0].Rate = 1

	assert.Equal(t, 25.0, source.Current().Rates[0].Rate)
}

func TestFixedSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFixedSource(nil, 0).FetchRates(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
