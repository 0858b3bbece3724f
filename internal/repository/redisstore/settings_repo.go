// internal/repository/redisstore/settings_repo.go
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"esim-pricing-service/internal/domain/pricing"

	"github.com/redis/go-redis/v9"
)

const (
	keyPriceOverrides = "pricing:overrides"
	keyDiscountRules  = "pricing:discount_rules"
	keyAuditLog       = "pricing:audit"
)

// AdminSettingsRepository is the Redis-backed settings store, used where the
// deployment keeps admin state in Redis instead of PostgreSQL. Each document
// is one JSON string under its own key, replaced wholesale on save.
type AdminSettingsRepository struct {
	client *redis.Client
}

func NewAdminSettingsRepository(client *redis.Client) *AdminSettingsRepository {
	return &AdminSettingsRepository{client: client}
}

func (r *AdminSettingsRepository) LoadOverrides(ctx context.Context) (pricing.PriceOverride, error) {
	overrides := pricing.PriceOverride{}
	if err := r.load(ctx, keyPriceOverrides, &overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *AdminSettingsRepository) SaveOverrides(ctx context.Context, overrides pricing.PriceOverride) error {
	return r.save(ctx, keyPriceOverrides, overrides)
}

func (r *AdminSettingsRepository) LoadDiscountRules(ctx context.Context) (pricing.DiscountRules, error) {
	rules := pricing.DiscountRules{}
	if err := r.load(ctx, keyDiscountRules, &rules); err != nil {
		return pricing.DiscountRules{}, err
	}
	return rules, nil
}

func (r *AdminSettingsRepository) SaveDiscountRules(ctx context.Context, rules pricing.DiscountRules) error {
	return r.save(ctx, keyDiscountRules, rules)
}

func (r *AdminSettingsRepository) AppendAudit(ctx context.Context, entry pricing.AuditEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}
	if err := r.client.LPush(ctx, keyAuditLog, raw).Err(); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func (r *AdminSettingsRepository) load(ctx context.Context, key string, out interface{}) error {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		// Never written yet: the empty document.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load setting %q: %w", key, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal setting %q: %w", key, err)
	}
	return nil
}

func (r *AdminSettingsRepository) save(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal setting %q: %w", key, err)
	}
	if err := r.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save setting %q: %w", key, err)
	}
	return nil
}
