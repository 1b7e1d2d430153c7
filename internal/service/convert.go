package service

import (
	"math"

	"exchange-rate-cache/internal/domain/model"
	"exchange-rate-cache/pkg/logger"
)

// ConvertPrice converts amount from one currency to another using rates.
//
// A rate entry {from, to, r} means one unit of to costs r units of from, so
// the result is amount / r: with {CZK, EUR, 25} 100 CZK converts to 4 EUR.
// Same-currency conversion returns amount without consulting rates. A
// missing or non-positive rate yields false; nothing is rounded.
func ConvertPrice(amount float64, from, to model.Currency, rates model.RateMap, log *logger.Logger) (float64, bool) {
	if from == to {
		return amount, true
	}

	rate, ok := rates.Lookup(from, to)
	if !ok || !(rate > 0) || math.IsInf(rate, 1) {
		if log != nil {
			log.Warn("No exchange rate found",
				"pair", model.CurrencyPair{FromCurrency: from, ToCurrency: to}.String(),
				"from", from,
				"to", to,
			)
		}
		return 0, false
	}

	return amount / rate, true
}
