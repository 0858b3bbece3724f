// internal/service/currency/currency.go
package currency

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "esim-pricing-service/internal/domain/currency"
	xerrors "esim-pricing-service/internal/pkg/errors"
	"esim-pricing-service/internal/pkg/ttlcache"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const cacheKey = "exchange_rates"

// Converter turns USD amounts into a requested display currency using the
// cached exchange rate table.
type Converter struct {
	source domain.Source
	cache  *ttlcache.Cache[domain.RateTable]
	logger *zap.Logger
}

func NewConverter(source domain.Source, cacheTTL time.Duration, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		source: source,
		cache:  ttlcache.New[domain.RateTable](cacheTTL, domain.RateTable{}, logger),
		logger: logger,
	}
}

// Convert returns amountUSD in the target currency. USD passes through
// unchanged so the display path works even when the rate source is down.
func (c *Converter) Convert(ctx context.Context, amountUSD decimal.Decimal, targetCurrency string) (decimal.Decimal, error) {
	code := strings.ToUpper(strings.TrimSpace(targetCurrency))
	if code == "" || code == "USD" {
		return amountUSD, nil
	}

	table := c.cache.Get(ctx, cacheKey, c.source.Load)
	rate, ok := table.Rate(code)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", xerrors.ErrUnsupportedCurrency, code)
	}

	return amountUSD.Mul(rate), nil
}

// Rates returns the cached rate table.
func (c *Converter) Rates(ctx context.Context) domain.RateTable {
	return c.cache.Get(ctx, cacheKey, c.source.Load)
}
