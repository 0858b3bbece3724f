package pricing

import (
	"context"
	"testing"
	"time"

	"esim-pricing-service/internal/domain/plan"
	domain "esim-pricing-service/internal/domain/pricing"
	xerrors "esim-pricing-service/internal/pkg/errors"
	"esim-pricing-service/internal/repository/exchange"
	"esim-pricing-service/internal/repository/memory"
	currencysvc "esim-pricing-service/internal/service/currency"
	"esim-pricing-service/internal/service/discount"
	"esim-pricing-service/internal/service/override"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPricing(t *testing.T) (*Service, *override.Service, *discount.Resolver) {
	t.Helper()

	catalog := memory.NewPlanCatalogRepository(
		plan.Plan{
			PackageCode:  "EU7-5GB",
			Name:         "Europe 5GB / 7 Days",
			BasePriceUSD: dec("10.00"),
			VolumeBytes:  5 << 30,
			Duration:     7,
			DurationUnit: plan.DurationDay,
		},
		plan.Plan{
			PackageCode:  "UNL-10D",
			Name:         "Unlimited / 10 Days",
			BasePriceUSD: dec("2.00"),
			VolumeBytes:  plan.VolumeUnlimited,
			Duration:     10,
			DurationUnit: plan.DurationDay,
		},
	)

	store := memory.NewAdminSettingsRepository()
	overrides := override.NewService(store, time.Minute, nil, nil)
	discounts := discount.NewResolver(store, time.Minute, nil)
	converter := currencysvc.NewConverter(exchange.NewStaticSource(map[string]decimal.Decimal{
		"EUR": dec("0.92"),
	}), time.Minute, nil)

	return NewService(catalog, overrides, discounts, converter, nil), overrides, discounts
}

// Plan EU7-5GB, base $10.00, override $8.00, 10% tier discount for the
// 1-10GB bucket: the display price is 8.00 x 0.90 = $7.20, and EUR at 0.92
// renders as EUR 6.62.
func TestGetDisplayPrice_OverrideAndTierDiscount(t *testing.T) {
	ctx := context.Background()
	svc, overrides, discounts := newTestPricing(t)

	require.NoError(t, overrides.SetPrice(ctx, "EU7-5GB", dec("8.00"), "admin-1"))
	require.NoError(t, discounts.UpdateRules(ctx, domain.DiscountRules{
		Tiers: []domain.DiscountTier{{LowGB: 1, HighGB: 10, Percent: dec("10")}},
	}, "admin-1"))

	usd, err := svc.GetDisplayPrice(ctx, "EU7-5GB", "USD")
	require.NoError(t, err)
	assert.True(t, usd.Amount.Equal(dec("7.20")), "got %s", usd.Amount)
	assert.Equal(t, "$7.20", usd.Formatted)
	assert.True(t, usd.Overridden)

	eur, err := svc.GetDisplayPrice(ctx, "EU7-5GB", "EUR")
	require.NoError(t, err)
	assert.True(t, eur.Amount.Equal(dec("6.624")), "conversion stays unrounded, got %s", eur.Amount)
	assert.Equal(t, "€6.62", eur.Formatted, "rounding happens once, at formatting")
	assert.Equal(t, "EUR", eur.CurrencyCode)
}

func TestGetDisplayPrice_DailyUnlimited(t *testing.T) {
	ctx := context.Background()
	svc, _, discounts := newTestPricing(t)

	require.NoError(t, discounts.UpdateRules(ctx, domain.DiscountRules{
		Plans: map[string]decimal.Decimal{"UNL-10D": dec("20")},
	}, "admin-1"))

	got, err := svc.GetDisplayPrice(ctx, "UNL-10D", "")
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec("16.00")), "2.00 x 0.80 x 10, got %s", got.Amount)
	assert.Equal(t, "USD", got.CurrencyCode)
	assert.False(t, got.Overridden)
}

func TestGetDisplayPrice_NoRulesNoOverride(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestPricing(t)

	got, err := svc.GetDisplayPrice(ctx, "EU7-5GB", "USD")
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec("10.00")))
	assert.True(t, got.DiscountPct.IsZero())
}

func TestGetDisplayPrice_UnknownPlan(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestPricing(t)

	_, err := svc.GetDisplayPrice(ctx, "NOPE", "USD")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestGetDisplayPrice_UnsupportedCurrency(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestPricing(t)

	_, err := svc.GetDisplayPrice(ctx, "EU7-5GB", "XXX")
	assert.ErrorIs(t, err, xerrors.ErrUnsupportedCurrency)
}

func TestListDisplayPrices(t *testing.T) {
	ctx := context.Background()
	svc, overrides, _ := newTestPricing(t)

	require.NoError(t, overrides.SetPrice(ctx, "EU7-5GB", dec("8.00"), "admin-1"))

	prices, err := svc.ListDisplayPrices(ctx, "USD")
	require.NoError(t, err)
	require.Len(t, prices, 2)

	byCode := map[string]bool{}
	for _, p := range prices {
		byCode[p.PackageCode] = p.Overridden
	}
	assert.True(t, byCode["EU7-5GB"])
	assert.False(t, byCode["UNL-10D"])
}
