package model

// RateMap is a two-level lookup: from currency, then to currency, to rate.
// A RateMap is never mutated once built; updates replace it wholesale.
type RateMap map[Currency]map[Currency]float64

// BuildRateMap indexes rates by pair. Later entries overwrite earlier ones
// with the same pair. Entries are not validated.
func BuildRateMap(rates []ExchangeRate) RateMap {
	m := make(RateMap, len(rates))
	for _, r := range rates {
		targets, ok := m[r.FromCurrency]
		if !ok {
			targets = make(map[Currency]float64)
			m[r.FromCurrency] = targets
		}
		targets[r.ToCurrency] = r.Rate
	}
	return m
}

func (m RateMap) Lookup(from, to Currency) (float64, bool) {
	rate, ok := m[from][to]
	return rate, ok
}
