// internal/repository/exchange/static_source.go
package exchange

import (
	"context"
	"time"

	"esim-pricing-service/internal/domain/currency"

	"github.com/shopspring/decimal"
)

// StaticSource serves a fixed rate table, for tests and development mode.
type StaticSource struct {
	table currency.RateTable

	// Err, when set, makes every Load fail.
	Err error

	LoadCalls int
}

func NewStaticSource(rates map[string]decimal.Decimal) *StaticSource {
	return &StaticSource{
		table: currency.RateTable{
			Rates:     rates,
			FetchedAt: time.Now(),
		},
	}
}

func (s *StaticSource) Load(_ context.Context) (currency.RateTable, error) {
	s.LoadCalls++
	if s.Err != nil {
		return currency.RateTable{}, s.Err
	}
	return s.table, nil
}
