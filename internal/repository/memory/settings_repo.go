// internal/repository/memory/settings_repo.go
package memory

import (
	"context"
	"sync"

	"esim-pricing-service/internal/domain/pricing"
)

// AdminSettingsRepository is an in-memory settings store for tests and
// development mode.
type AdminSettingsRepository struct {
	mu        sync.RWMutex
	overrides pricing.PriceOverride
	rules     pricing.DiscountRules
	audit     []pricing.AuditEntry

	// FailLoads makes every load return FailErr, for exercising the cache
	// fallback paths.
	FailLoads bool
	FailSaves bool
	FailErr   error

	LoadCalls int
}

func NewAdminSettingsRepository() *AdminSettingsRepository {
	return &AdminSettingsRepository{
		overrides: pricing.PriceOverride{},
	}
}

func (r *AdminSettingsRepository) LoadOverrides(_ context.Context) (pricing.PriceOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LoadCalls++
	if r.FailLoads {
		return nil, r.FailErr
	}
	return r.overrides.Clone(), nil
}

func (r *AdminSettingsRepository) SaveOverrides(_ context.Context, overrides pricing.PriceOverride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailSaves {
		return r.FailErr
	}
	r.overrides = overrides.Clone()
	return nil
}

func (r *AdminSettingsRepository) LoadDiscountRules(_ context.Context) (pricing.DiscountRules, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.FailLoads {
		return pricing.DiscountRules{}, r.FailErr
	}
	return r.rules, nil
}

func (r *AdminSettingsRepository) SaveDiscountRules(_ context.Context, rules pricing.DiscountRules) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailSaves {
		return r.FailErr
	}
	r.rules = rules
	return nil
}

func (r *AdminSettingsRepository) AppendAudit(_ context.Context, entry pricing.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audit = append(r.audit, entry)
	return nil
}

// AuditEntries returns a copy of the recorded audit trail.
func (r *AdminSettingsRepository) AuditEntries() []pricing.AuditEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp := make([]pricing.AuditEntry, len(r.audit))
	copy(cp, r.audit)
	return cp
}

// Overrides returns a copy of the persisted override map.
func (r *AdminSettingsRepository) Overrides() pricing.PriceOverride {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.overrides.Clone()
}
