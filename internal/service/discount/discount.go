// internal/service/discount/discount.go
package discount

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domain "esim-pricing-service/internal/domain/pricing"
	xerrors "esim-pricing-service/internal/pkg/errors"
	"esim-pricing-service/internal/pkg/ttlcache"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const cacheKey = "discount_rules"

var hundred = decimal.NewFromInt(100)

// Resolver determines the applicable discount percentage for a plan.
// An explicit per-plan rule wins; otherwise the first ascending size tier
// whose half-open bracket [low, high) contains the plan's size applies;
// otherwise the discount is zero.
type Resolver struct {
	store  domain.SettingsStore
	cache  *ttlcache.Cache[domain.DiscountRules]
	logger *zap.Logger

	mu sync.Mutex
}

func NewResolver(store domain.SettingsStore, cacheTTL time.Duration, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		store:  store,
		cache:  ttlcache.New[domain.DiscountRules](cacheTTL, domain.DiscountRules{}, logger),
		logger: logger,
	}
}

// Resolve returns the discount percent (0-100) for a plan. sizeGB is the
// normalized plan size; unlimited plans must already be normalized to the
// daily-allowance sentinel by the caller (plan.SizeGB does this).
func (r *Resolver) Resolve(ctx context.Context, packageCode string, sizeGB float64) decimal.Decimal {
	rules := r.Rules(ctx)

	if pct, ok := rules.Plans[packageCode]; ok {
		return pct
	}

	for _, tier := range rules.Tiers {
		if sizeGB >= tier.LowGB && sizeGB < tier.HighGB {
			return tier.Percent
		}
	}
	return decimal.Zero
}

// Rules returns the current rule set through the cache, with tiers sorted
// ascending by bracket floor.
func (r *Resolver) Rules(ctx context.Context) domain.DiscountRules {
	return r.cache.Get(ctx, cacheKey, func(ctx context.Context) (domain.DiscountRules, error) {
		rules, err := r.store.LoadDiscountRules(ctx)
		if err != nil {
			return domain.DiscountRules{}, err
		}
		sortTiers(rules.Tiers)
		return rules, nil
	})
}

// UpdateRules validates and replaces the whole discount rule set.
func (r *Resolver) UpdateRules(ctx context.Context, rules domain.DiscountRules, adminID string) error {
	if adminID == "" {
		return xerrors.ErrAuthorization
	}
	if err := validateRules(rules); err != nil {
		return err
	}
	sortTiers(rules.Tiers)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.SaveDiscountRules(ctx, rules); err != nil {
		return fmt.Errorf("save discount rules: %w: %w", xerrors.ErrUpstreamUnavailable, err)
	}

	entry := domain.AuditEntry{
		ID:        ulid.Make().String(),
		Actor:     adminID,
		Action:    "update_discounts",
		Detail:    fmt.Sprintf("%d plan rules, %d tiers", len(rules.Plans), len(rules.Tiers)),
		CreatedAt: time.Now(),
	}
	if err := r.store.AppendAudit(ctx, entry); err != nil {
		r.logger.Warn("failed to append audit entry", zap.Error(err))
	}

	r.cache.Invalidate(cacheKey)

	r.logger.Info("discount rules updated",
		zap.Int("plan_rules", len(rules.Plans)),
		zap.Int("tiers", len(rules.Tiers)),
		zap.String("admin_id", adminID),
	)
	return nil
}

func validateRules(rules domain.DiscountRules) error {
	for code, pct := range rules.Plans {
		if code == "" {
			return xerrors.Validationf("discount rule with empty plan code")
		}
		if err := validatePercent(pct); err != nil {
			return xerrors.Validationf("plan rule %q: %s", code, err)
		}
	}
	for i, tier := range rules.Tiers {
		if tier.LowGB < 0 {
			return xerrors.Validationf("tier %d: bracket floor must be >= 0", i)
		}
		if tier.HighGB <= tier.LowGB {
			return xerrors.Validationf("tier %d: bracket must satisfy low < high", i)
		}
		if err := validatePercent(tier.Percent); err != nil {
			return xerrors.Validationf("tier %d: %s", i, err)
		}
	}
	return nil
}

func validatePercent(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return fmt.Errorf("percent must be within [0,100], got %s", pct)
	}
	return nil
}

func sortTiers(tiers []domain.DiscountTier) {
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].LowGB < tiers[j].LowGB })
}
