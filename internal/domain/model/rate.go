package model

import (
	"fmt"
	"time"
)

// ExchangeRate is directional: one unit of ToCurrency costs Rate units of
// FromCurrency. The inverse pair is a separate record.
type ExchangeRate struct {
	FromCurrency Currency `json:"fromCurrency"`
	ToCurrency   Currency `json:"toCurrency"`
	Rate         float64  `json:"rate"`
}

// CurrencyPair identifies a directional conversion, e.g. "CZK-EUR".
type CurrencyPair struct {
	FromCurrency Currency `json:"fromCurrency"`
	ToCurrency   Currency `json:"toCurrency"`
}

func (p CurrencyPair) String() string {
	return fmt.Sprintf("%s-%s", p.FromCurrency, p.ToCurrency)
}

// CachedRateSet is the unit of persistence and of freshness evaluation.
type CachedRateSet struct {
	Rates      []ExchangeRate
	ValidUntil time.Time
}

type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusLoading       Status = "loading"
	StatusReady         Status = "ready"
	StatusError         Status = "error"
)

// Snapshot is a read-only view of the provider state handed to consumers.
type Snapshot struct {
	Rates      []ExchangeRate `json:"rates"`
	ValidUntil time.Time      `json:"validUntil"`
	Loading    bool           `json:"loading"`
	Error      error          `json:"-"`
	Status     Status         `json:"status"`
}
