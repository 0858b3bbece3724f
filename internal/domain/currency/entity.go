// internal/domain/currency/entity.go
package currency

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateTable maps currencyCode -> units of that currency per 1 USD.
type RateTable struct {
	Rates     map[string]decimal.Decimal `json:"rates"`
	FetchedAt time.Time                  `json:"fetched_at"`
}

// Rate returns the conversion rate for a currency code, if present.
func (t RateTable) Rate(code string) (decimal.Decimal, bool) {
	rate, ok := t.Rates[code]
	return rate, ok
}

// Source supplies the exchange rate table. Owned by the external rate
// provider; the engine only consumes and caches it.
type Source interface {
	Load(ctx context.Context) (RateTable, error)
}
