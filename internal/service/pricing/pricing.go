// internal/service/pricing/pricing.go
package pricing

import (
	"context"
	"fmt"
	"strings"

	"esim-pricing-service/internal/domain/plan"
	domain "esim-pricing-service/internal/domain/pricing"
	currencysvc "esim-pricing-service/internal/service/currency"
	"esim-pricing-service/internal/service/discount"
	"esim-pricing-service/internal/service/override"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service resolves the final displayed price of a plan: override precedence,
// discount resolution, billing-shape math, then currency conversion and
// formatting.
type Service struct {
	catalog   plan.Catalog
	overrides *override.Service
	discounts *discount.Resolver
	converter *currencysvc.Converter
	logger    *zap.Logger
}

func NewService(
	catalog plan.Catalog,
	overrides *override.Service,
	discounts *discount.Resolver,
	converter *currencysvc.Converter,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog:   catalog,
		overrides: overrides,
		discounts: discounts,
		converter: converter,
		logger:    logger,
	}
}

// GetDisplayPrice computes the displayed price for a plan in the target
// currency. An empty currency code means USD.
func (s *Service) GetDisplayPrice(ctx context.Context, packageCode, targetCurrency string) (*domain.DisplayPrice, error) {
	p, err := s.catalog.GetPlan(ctx, packageCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan %q: %w", packageCode, err)
	}
	return s.displayPrice(ctx, p, targetCurrency)
}

// ListDisplayPrices prices every catalog plan in the target currency,
// refreshing the override snapshot once for the whole list.
func (s *Service) ListDisplayPrices(ctx context.Context, targetCurrency string) ([]*domain.DisplayPrice, error) {
	plans, err := s.catalog.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	prices := make([]*domain.DisplayPrice, 0, len(plans))
	for _, p := range plans {
		dp, err := s.displayPrice(ctx, p, targetCurrency)
		if err != nil {
			return nil, err
		}
		prices = append(prices, dp)
	}
	return prices, nil
}

func (s *Service) displayPrice(ctx context.Context, p *plan.Plan, targetCurrency string) (*domain.DisplayPrice, error) {
	targetCurrency = strings.ToUpper(strings.TrimSpace(targetCurrency))
	if targetCurrency == "" {
		targetCurrency = "USD"
	}

	all := s.overrides.FetchAll(ctx)
	var ov *decimal.Decimal
	if v, ok := all[p.PackageCode]; ok {
		ov = &v
	}

	pct := s.discounts.Resolve(ctx, p.PackageCode, p.SizeGB())

	usd, err := ComputeFinalUSD(p, ov, pct)
	if err != nil {
		return nil, err
	}

	amount, err := s.converter.Convert(ctx, usd, targetCurrency)
	if err != nil {
		return nil, err
	}

	return &domain.DisplayPrice{
		PackageCode:  p.PackageCode,
		Amount:       amount,
		CurrencyCode: targetCurrency,
		Formatted:    currencysvc.Format(amount, targetCurrency),
		Overridden:   ov != nil,
		DiscountPct:  pct,
	}, nil
}
