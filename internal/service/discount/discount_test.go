package discount

import (
	"context"
	"testing"
	"time"

	"esim-pricing-service/internal/domain/plan"
	domain "esim-pricing-service/internal/domain/pricing"
	xerrors "esim-pricing-service/internal/pkg/errors"
	"esim-pricing-service/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pct(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestResolver(t *testing.T, rules domain.DiscountRules) *Resolver {
	t.Helper()
	store := memory.NewAdminSettingsRepository()
	r := NewResolver(store, time.Minute, nil)
	require.NoError(t, r.UpdateRules(context.Background(), rules, "admin-1"))
	return r
}

func TestResolve_PerPlanRuleWins(t *testing.T) {
	ctx := context.Background()
	r := newTestResolver(t, domain.DiscountRules{
		Plans: map[string]decimal.Decimal{"EU7-5GB": pct("15")},
		Tiers: []domain.DiscountTier{{LowGB: 1, HighGB: 10, Percent: pct("10")}},
	})

	got := r.Resolve(ctx, "EU7-5GB", 5)
	assert.True(t, got.Equal(pct("15")))
}

func TestResolve_TierBrackets(t *testing.T) {
	ctx := context.Background()
	r := newTestResolver(t, domain.DiscountRules{
		Tiers: []domain.DiscountTier{
			{LowGB: 1, HighGB: 10, Percent: pct("10")},
			{LowGB: 10, HighGB: 50, Percent: pct("20")},
		},
	})

	tests := []struct {
		name   string
		sizeGB float64
		want   string
	}{
		{"below all brackets", 0.5, "0"},
		{"bracket floor is inclusive", 1, "10"},
		{"inside first bracket", 9.99, "10"},
		{"boundary belongs to the higher bracket", 10, "20"},
		{"inside second bracket", 49, "20"},
		{"bracket ceiling is exclusive", 50, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(ctx, "ANY", tt.sizeGB)
			assert.True(t, got.Equal(pct(tt.want)), "size %v: got %s want %s", tt.sizeGB, got, tt.want)
		})
	}
}

func TestResolve_TiersEvaluatedAscending(t *testing.T) {
	ctx := context.Background()
	// Stored out of order; the resolver must still match ascending.
	r := newTestResolver(t, domain.DiscountRules{
		Tiers: []domain.DiscountTier{
			{LowGB: 10, HighGB: 50, Percent: pct("20")},
			{LowGB: 0, HighGB: 20, Percent: pct("5")},
		},
	})

	got := r.Resolve(ctx, "ANY", 15)
	assert.True(t, got.Equal(pct("5")), "the lowest matching bracket wins")
}

func TestResolve_UnlimitedPlanUsesSentinelSize(t *testing.T) {
	ctx := context.Background()
	r := newTestResolver(t, domain.DiscountRules{
		Tiers: []domain.DiscountTier{{LowGB: 1, HighGB: 10, Percent: pct("10")}},
	})

	p := plan.Plan{PackageCode: "UNL", VolumeBytes: plan.VolumeUnlimited, Duration: 10}
	got := r.Resolve(ctx, p.PackageCode, p.SizeGB())
	assert.True(t, got.Equal(pct("10")), "unlimited plans normalize to %vGB, never infinite", plan.DailyUnlimitedSizeGB)
}

func TestResolve_NoRulesMeansZero(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAdminSettingsRepository()
	r := NewResolver(store, time.Minute, nil)

	got := r.Resolve(ctx, "ANY", 5)
	assert.True(t, got.IsZero())
}

func TestUpdateRules_Validation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAdminSettingsRepository()
	r := NewResolver(store, time.Minute, nil)

	err := r.UpdateRules(ctx, domain.DiscountRules{
		Plans: map[string]decimal.Decimal{"A": pct("101")},
	}, "admin-1")
	assert.ErrorIs(t, err, xerrors.ErrValidation)

	err = r.UpdateRules(ctx, domain.DiscountRules{
		Tiers: []domain.DiscountTier{{LowGB: 10, HighGB: 10, Percent: pct("5")}},
	}, "admin-1")
	assert.ErrorIs(t, err, xerrors.ErrValidation)

	err = r.UpdateRules(ctx, domain.DiscountRules{
		Tiers: []domain.DiscountTier{{LowGB: -1, HighGB: 10, Percent: pct("5")}},
	}, "admin-1")
	assert.ErrorIs(t, err, xerrors.ErrValidation)

	err = r.UpdateRules(ctx, domain.DiscountRules{}, "")
	assert.ErrorIs(t, err, xerrors.ErrAuthorization)
}

func TestUpdateRules_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAdminSettingsRepository()
	r := NewResolver(store, time.Minute, nil)

	require.NoError(t, r.UpdateRules(ctx, domain.DiscountRules{
		Plans: map[string]decimal.Decimal{"A": pct("10")},
	}, "admin-1"))
	assert.True(t, r.Resolve(ctx, "A", 1).Equal(pct("10")))

	require.NoError(t, r.UpdateRules(ctx, domain.DiscountRules{
		Plans: map[string]decimal.Decimal{"A": pct("25")},
	}, "admin-1"))
	assert.True(t, r.Resolve(ctx, "A", 1).Equal(pct("25")), "readers must observe the new rules immediately")
}
