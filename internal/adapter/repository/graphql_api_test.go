package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exchange-rate-cache/internal/domain/model"
	"exchange-rate-cache/pkg/logger"
)

const validResponse = `{
  "data": {
    "exchangeRates": {
      "rates": [
        {"fromCurrency": "CZK", "toCurrency": "EUR", "rate": 25.0},
        {"fromCurrency": "EUR", "toCurrency": "CZK", "rate": 0.04}
      ],
      "validUntil": "2024-11-20T12:05:00.000Z"
    }
  }
}`

func newGraphQLServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req graphQLRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ExchangeRates", req.OperationName)
		assert.Contains(t, req.Query, "exchangeRates")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGraphQLSource_FetchRates(t *testing.T) {
	server := newGraphQLServer(t, http.StatusOK, validResponse)
	source := NewGraphQLSource(server.URL, time.Second, logger.NewNop())

	set, err := source.FetchRates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []model.ExchangeRate{
		{FromCurrency: model.CZK, ToCurrency: model.EUR, Rate: 25.0},
		{FromCurrency: model.EUR, ToCurrency: model.CZK, Rate: 0.04},
	}, set.Rates)
	assert.Equal(t, time.Date(2024, 11, 20, 12, 5, 0, 0, time.UTC), set.ValidUntil)
	assert.Equal(t, "graphql", source.Name())
}

func TestGraphQLSource_Failures(t *testing.T) {
	testCases := []struct {
		name      string
		status    int
		body      string
		malformed bool
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`},
		{name: "graphql errors", status: http.StatusOK, body: `{"errors":[{"message":"unauthorized"}],"data":null}`},
		{name: "invalid json", status: http.StatusOK, body: `{"data":`, malformed: true},
		{name: "missing exchangeRates", status: http.StatusOK, body: `{"data":{}}`, malformed: true},
		{name: "rates not a list", status: http.StatusOK, body: `{"data":{"exchangeRates":{"rates":{},"validUntil":"2024-11-20T12:05:00Z"}}}`, malformed: true},
		{name: "missing validUntil", status: http.StatusOK, body: `{"data":{"exchangeRates":{"rates":[]}}}`, malformed: true},
		{name: "numeric validUntil", status: http.StatusOK, body: `{"data":{"exchangeRates":{"rates":[],"validUntil":1732104300}}}`, malformed: true},
		{name: "unparsable validUntil", status: http.StatusOK, body: `{"data":{"exchangeRates":{"rates":[],"validUntil":"soon"}}}`, malformed: true},
		{name: "rate as string", status: http.StatusOK, body: `{"data":{"exchangeRates":{"rates":[{"fromCurrency":"CZK","toCurrency":"EUR","rate":"25"}],"validUntil":"2024-11-20T12:05:00Z"}}}`, malformed: true},
		{name: "missing currency", status: http.StatusOK, body: `{"data":{"exchangeRates":{"rates":[{"toCurrency":"EUR","rate":25}],"validUntil":"2024-11-20T12:05:00Z"}}}`, malformed: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := newGraphQLServer(t, tc.status, tc.body)
			source := NewGraphQLSource(server.URL, time.Second, logger.NewNop())

			set, err := source.FetchRates(context.Background())

			require.Error(t, err)
			assert.Nil(t, set)
			assert.Equal(t, tc.malformed, errors.Is(err, ErrMalformedResponse), err.Error())
		})
	}
}

func TestGraphQLSource_EmptyRatesIsValid(t *testing.T) {
	server := newGraphQLServer(t, http.StatusOK, `{"data":{"exchangeRates":{"rates":[],"validUntil":"2024-11-20T12:05:00Z"}}}`)
	source := NewGraphQLSource(server.URL, time.Second, logger.NewNop())

	set, err := source.FetchRates(context.Background())

	require.NoError(t, err)
	assert.Empty(t, set.Rates)
}

func TestGraphQLSource_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewGraphQLSource(url, time.Second, logger.NewNop()).FetchRates(context.Background())
	assert.Error(t, err)
}
