// internal/service/override/override.go
package override

import (
	"context"
	"fmt"
	"sync"
	"time"

	domain "esim-pricing-service/internal/domain/pricing"
	xerrors "esim-pricing-service/internal/pkg/errors"
	"esim-pricing-service/internal/pkg/ttlcache"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const cacheKey = "price_overrides"

// EventPublisher receives a notification after every successful pricing
// write. Implemented by the websocket events hub; may be nil.
type EventPublisher interface {
	PublishOverrideEvent(evt domain.OverrideEvent)
}

// Service is the cache-backed store of admin price overrides. Reads go
// through a TTL cache and never hard-fail; writes are synchronous
// read-merge-write round-trips against the settings store, each followed by
// a cache invalidation so readers observe their own writes.
type Service struct {
	store  domain.SettingsStore
	cache  *ttlcache.Cache[domain.PriceOverride]
	events EventPublisher
	logger *zap.Logger

	// Serializes read-merge-write cycles so concurrent admin writes for
	// different plan codes don't lose each other's change. Last writer
	// wins at the whole-map level, which is acceptable for infrequent
	// admin-initiated writes.
	mu sync.Mutex
}

func NewService(store domain.SettingsStore, cacheTTL time.Duration, events EventPublisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		cache:  ttlcache.New[domain.PriceOverride](cacheTTL, domain.PriceOverride{}, logger),
		events: events,
		logger: logger,
	}
}

// FetchAll returns the override map through the cache. On load failure it
// returns the last-known snapshot, or an empty map if none exists: price
// resolution must never hard-fail because of this dependency.
func (s *Service) FetchAll(ctx context.Context) domain.PriceOverride {
	return s.cache.Get(ctx, cacheKey, s.store.LoadOverrides)
}

// GetIndividualPrice looks up an override against the last cached snapshot
// only. It never triggers a fetch; callers needing freshness must call
// FetchAll first.
func (s *Service) GetIndividualPrice(packageCode string) (decimal.Decimal, bool) {
	snapshot, ok := s.cache.Peek(cacheKey)
	if !ok {
		return decimal.Decimal{}, false
	}
	price, ok := snapshot[packageCode]
	return price, ok
}

// SetPrice upserts an override when priceUSD > 0, and clears the override
// when priceUSD <= 0.
func (s *Service) SetPrice(ctx context.Context, packageCode string, priceUSD decimal.Decimal, adminID string) error {
	if adminID == "" {
		return xerrors.ErrAuthorization
	}
	if packageCode == "" {
		return xerrors.Validationf("package code must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-fetch immediately before merging so a concurrent write for a
	// different plan code is not lost.
	current, err := s.store.LoadOverrides(ctx)
	if err != nil {
		return fmt.Errorf("load overrides: %w: %w", xerrors.ErrUpstreamUnavailable, err)
	}

	merged := current.Clone()
	action := "set"
	if priceUSD.GreaterThan(decimal.Zero) {
		merged[packageCode] = priceUSD
	} else {
		action = "remove"
		delete(merged, packageCode)
	}

	if err := s.store.SaveOverrides(ctx, merged); err != nil {
		return fmt.Errorf("save overrides: %w: %w", xerrors.ErrUpstreamUnavailable, err)
	}

	s.audit(ctx, adminID, action, packageCode, priceUSD.String())
	s.cache.Invalidate(cacheKey)
	s.publish(domain.OverrideEvent{
		Action:      action,
		PackageCode: packageCode,
		PriceUSD:    priceUSD,
		Actor:       adminID,
		At:          time.Now(),
	})

	s.logger.Info("price override written",
		zap.String("package_code", packageCode),
		zap.String("action", action),
		zap.String("price_usd", priceUSD.String()),
		zap.String("admin_id", adminID),
	)
	return nil
}

// RemovePrice clears the override for a plan.
func (s *Service) RemovePrice(ctx context.Context, packageCode string, adminID string) error {
	return s.SetPrice(ctx, packageCode, decimal.Zero, adminID)
}

// ClearAll replaces the override map with an empty one.
func (s *Service) ClearAll(ctx context.Context, adminID string) error {
	if adminID == "" {
		return xerrors.ErrAuthorization
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveOverrides(ctx, domain.PriceOverride{}); err != nil {
		return fmt.Errorf("clear overrides: %w: %w", xerrors.ErrUpstreamUnavailable, err)
	}

	s.audit(ctx, adminID, "clear", "", "")
	s.cache.Invalidate(cacheKey)
	s.publish(domain.OverrideEvent{Action: "clear", Actor: adminID, At: time.Now()})

	s.logger.Info("price overrides cleared", zap.String("admin_id", adminID))
	return nil
}

func (s *Service) audit(ctx context.Context, actor, action, packageCode, detail string) {
	entry := domain.AuditEntry{
		ID:          ulid.Make().String(),
		Actor:       actor,
		Action:      action,
		PackageCode: packageCode,
		Detail:      detail,
		CreatedAt:   time.Now(),
	}
	if err := s.store.AppendAudit(ctx, entry); err != nil {
		// Audit is best-effort; the pricing write already succeeded.
		s.logger.Warn("failed to append audit entry", zap.Error(err))
	}
}

func (s *Service) publish(evt domain.OverrideEvent) {
	if s.events != nil {
		s.events.PublishOverrideEvent(evt)
	}
}
