package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"exchange-rate-cache/internal/domain/model"
	"exchange-rate-cache/pkg/logger"
	"exchange-rate-cache/pkg/utils"
)

var ErrMalformedResponse = errors.New("malformed exchange rates response")

const exchangeRatesQuery = `query ExchangeRates {
  exchangeRates {
    rates {
      fromCurrency
      toCurrency
      rate
    }
    validUntil
  }
}`

const maxResponseBytes = 4 << 20

type graphQLRequest struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName"`
}

// GraphQLSource fetches the rate set from a GraphQL endpoint over HTTP.
type GraphQLSource struct {
	endpoint   string
	httpClient *http.Client
	log        *logger.Logger
}

func NewGraphQLSource(endpoint string, timeout time.Duration, log *logger.Logger) *GraphQLSource {
	return &GraphQLSource{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

func (g *GraphQLSource) Name() string {
	return "graphql"
}

func (g *GraphQLSource) FetchRates(ctx context.Context) (*model.CachedRateSet, error) {
	body, err := json.Marshal(graphQLRequest{Query: exchangeRatesQuery, OperationName: "ExchangeRates"})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned non-OK status: %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	set, err := parseExchangeRates(payload)
	if err != nil {
		return nil, err
	}

	g.log.Debug("Fetched exchange rates", "source", g.Name(), "rates", len(set.Rates), "valid_until", set.ValidUntil)
	return set, nil
}

// parseExchangeRates accepts only the documented shape; anything else is a
// fetch failure.
func parseExchangeRates(payload []byte) (*model.CachedRateSet, error) {
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedResponse)
	}
	doc := gjson.ParseBytes(payload)

	if errs := doc.Get("errors"); errs.IsArray() && len(errs.Array()) > 0 {
		return nil, fmt.Errorf("API reported failure: %s", errs.Get("0.message").String())
	}

	result := doc.Get("data.exchangeRates")
	if !result.IsObject() {
		return nil, fmt.Errorf("%w: missing exchangeRates", ErrMalformedResponse)
	}

	ratesField := result.Get("rates")
	if !ratesField.IsArray() {
		return nil, fmt.Errorf("%w: rates is not a list", ErrMalformedResponse)
	}

	validUntilField := result.Get("validUntil")
	if validUntilField.Type != gjson.String {
		return nil, fmt.Errorf("%w: validUntil is not a string", ErrMalformedResponse)
	}
	validUntil, err := utils.ParseTimestamp(validUntilField.String())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid validUntil: %v", ErrMalformedResponse, err)
	}

	items := ratesField.Array()
	rates := make([]model.ExchangeRate, 0, len(items))
	for i, item := range items {
		from := item.Get("fromCurrency")
		to := item.Get("toCurrency")
		rate := item.Get("rate")
		if from.Type != gjson.String || to.Type != gjson.String || rate.Type != gjson.Number {
			return nil, fmt.Errorf("%w: rate %d has unexpected shape", ErrMalformedResponse, i)
		}
		rates = append(rates, model.ExchangeRate{
			FromCurrency: model.Currency(from.String()),
			ToCurrency:   model.Currency(to.String()),
			Rate:         rate.Float(),
		})
	}

	return &model.CachedRateSet{Rates: rates, ValidUntil: validUntil}, nil
}
