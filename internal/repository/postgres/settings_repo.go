// internal/repository/postgres/settings_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"esim-pricing-service/internal/domain/pricing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	keyPriceOverrides = "price_overrides"
	keyDiscountRules  = "discount_rules"
)

// AdminSettingsRepository persists admin pricing documents as flat JSON
// objects, one row per key. Saves replace the whole document, which keeps
// writes idempotent and atomic at the row level.
type AdminSettingsRepository struct {
	db *pgxpool.Pool
}

func NewAdminSettingsRepository(db *pgxpool.Pool) *AdminSettingsRepository {
	return &AdminSettingsRepository{db: db}
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
	query := `
		INSERT INTO pricing_audit (id, actor, action, package_code, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.Actor, entry.Action, entry.PackageCode, entry.Detail, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func (r *AdminSettingsRepository) load(ctx context.Context, key string, out interface{}) error {
	query := `SELECT value FROM admin_settings WHERE key = $1`

	var raw []byte
	err := r.db.QueryRow(ctx, query, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
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

	query := `
		INSERT INTO admin_settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`

	if _, err := r.db.Exec(ctx, query, key, raw); err != nil {
		return fmt.Errorf("failed to save setting %q: %w", key, err)
	}
	return nil
}
