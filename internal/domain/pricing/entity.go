// internal/domain/pricing/entity.go
package pricing

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PriceOverride maps packageCode -> admin-set USD price. Absence of a key
// means "no override, use the catalog base price".
type PriceOverride map[string]decimal.Decimal

// MarshalJSON renders override prices as plain JSON numbers, matching the
// persisted flat-object layout and the bulk export format.
func (o PriceOverride) MarshalJSON() ([]byte, error) {
	m := make(map[string]json.Number, len(o))
	for code, price := range o {
		m[code] = json.Number(price.String())
	}
	return json.Marshal(m)
}

// Clone returns a shallow copy safe to merge into without aliasing the
// cached snapshot.
func (o PriceOverride) Clone() PriceOverride {
	cp := make(PriceOverride, len(o))
	for code, price := range o {
		cp[code] = price
	}
	return cp
}

// DiscountTier is a half-open GB bracket [LowGB, HighGB). Tiers are kept
// sorted ascending; the first bracket containing a plan's size wins.
type DiscountTier struct {
	LowGB   float64         `json:"low_gb"`
	HighGB  float64         `json:"high_gb"`
	Percent decimal.Decimal `json:"percent"`
}

// DiscountRules holds both rule shapes: explicit per-plan percentages and
// the global size-tier table. An explicit rule always wins.
type DiscountRules struct {
	Plans map[string]decimal.Decimal `json:"plans"`
	Tiers []DiscountTier             `json:"tiers"`
}

func (r DiscountRules) MarshalJSON() ([]byte, error) {
	plans := make(map[string]json.Number, len(r.Plans))
	for code, pct := range r.Plans {
		plans[code] = json.Number(pct.String())
	}
	tiers := make([]tierJSON, 0, len(r.Tiers))
	for _, t := range r.Tiers {
		tiers = append(tiers, tierJSON{
			LowGB:   t.LowGB,
			HighGB:  t.HighGB,
			Percent: json.Number(t.Percent.String()),
		})
	}
	return json.Marshal(rulesJSON{Plans: plans, Tiers: tiers})
}

type rulesJSON struct {
	Plans map[string]json.Number `json:"plans"`
	Tiers []tierJSON             `json:"tiers"`
}

type tierJSON struct {
	LowGB   float64     `json:"low_gb"`
	HighGB  float64     `json:"high_gb"`
	Percent json.Number `json:"percent"`
}

// AuditEntry records a single admin pricing write.
type AuditEntry struct {
	ID          string    `json:"id"`
	Actor       string    `json:"actor"`
	Action      string    `json:"action"`
	PackageCode string    `json:"package_code,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// OverrideEvent is broadcast to connected admin dashboards after a
// successful pricing write.
type OverrideEvent struct {
	Action      string          `json:"action"` // set | remove | clear | import
	PackageCode string          `json:"package_code,omitempty"`
	PriceUSD    decimal.Decimal `json:"price_usd,omitempty"`
	Actor       string          `json:"actor"`
	At          time.Time       `json:"at"`
}
