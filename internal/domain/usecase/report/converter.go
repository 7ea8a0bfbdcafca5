package report

import "github.com/Darkelvar/transaction-processor/internal/domain/entity"

// RateTable maps currency codes to fixed PLN exchange rates. The table and
// the fallback rate come from configuration so tests and fixtures can
// override them.
type RateTable struct {
	rates       map[string]float64
	defaultRate float64
}

// NewRateTable creates a converter table. A nil or empty rates map means
// every currency falls back to defaultRate.
func NewRateTable(rates map[string]float64, defaultRate float64) *RateTable {
	copied := make(map[string]float64, len(rates))
	for code, rate := range rates {
		copied[code] = rate
	}
	return &RateTable{rates: copied, defaultRate: defaultRate}
}

// ConvertToPLN converts an amount to PLN. Currencies absent from the table
// use the fixed default rate; that fallback is part of the contract, not an
// error condition.
func (t *RateTable) ConvertToPLN(amount float64, currency string) float64 {
	rate, ok := t.rates[currency]
	if !ok {
		rate = t.defaultRate
	}
	return amount * rate
}

// ConvertRounded converts to PLN and rounds to 2 decimal places
func (t *RateTable) ConvertRounded(amount float64, currency string) float64 {
	return entity.Round2(t.ConvertToPLN(amount, currency))
}
