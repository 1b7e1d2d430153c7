package ports

import (
	"context"

	"exchange-rate-cache/internal/domain/model"
)

// RateSource is the remote origin of rate sets. FetchRates returns a non-nil
// set whenever err is nil; a nil set is treated as a failed fetch.
type RateSource interface {
	FetchRates(ctx context.Context) (*model.CachedRateSet, error)
	Name() string
}
