// internal/domain/pricing/repository.go
package pricing

import "context"

// SettingsStore is the durable key-value store behind admin pricing data.
// Save is atomic from the engine's perspective: a saved map is either fully
// visible or not at all.
type SettingsStore interface {
	LoadOverrides(ctx context.Context) (PriceOverride, error)
	SaveOverrides(ctx context.Context, overrides PriceOverride) error

	LoadDiscountRules(ctx context.Context) (DiscountRules, error)
	SaveDiscountRules(ctx context.Context, rules DiscountRules) error

	AppendAudit(ctx context.Context, entry AuditEntry) error
}
