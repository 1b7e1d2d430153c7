package model

// Currency is a short currency code such as "CZK" or "EUR". Codes are not
// validated here; the rate source owns that.
type Currency string

const (
	CZK Currency = "CZK"
	EUR Currency = "EUR"
	USD Currency = "USD"
	PLN Currency = "PLN"
)

func (c Currency) String() string {
	return string(c)
}
