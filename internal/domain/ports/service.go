package ports

import (
	"exchange-rate-cache/internal/domain/model"
)

// RateService is the read-only conversion and freshness surface handed to
// consumers.
type RateService interface {
	ConvertPrice(amount float64, from, to model.Currency) (float64, bool)
	Snapshot() model.Snapshot
	Refetch()
}
