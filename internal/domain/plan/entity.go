// internal/domain/plan/entity.go
package plan

import (
	"context"

	"github.com/shopspring/decimal"
)

type DurationUnit string

const (
	DurationDay   DurationUnit = "day"
	DurationMonth DurationUnit = "month"
)

// VolumeUnlimited marks a plan sold as "unlimited" data. These plans are
// throttled after the daily fair-use allowance and are priced per day.
const VolumeUnlimited int64 = -1

// DailyUnlimitedSizeGB is the daily fair-use allowance of an unlimited plan.
// It doubles as the sentinel size for discount-tier matching, so unlimited
// plans never fall outside every finite bracket.
const DailyUnlimitedSizeGB float64 = 2

const bytesPerGB = 1 << 30

// Plan is an immutable catalog record. The pricing engine never mutates
// plans; it only reads them to resolve a displayed price.
type Plan struct {
	PackageCode  string          `json:"package_code" db:"package_code"`
	Name         string          `json:"name" db:"name"`
	BasePriceUSD decimal.Decimal `json:"base_price_usd" db:"base_price_usd"`
	VolumeBytes  int64           `json:"volume_bytes" db:"volume_bytes"`
	Duration     int             `json:"duration" db:"duration"`
	DurationUnit DurationUnit    `json:"duration_unit" db:"duration_unit"`
}

// IsDailyUnlimited reports whether BasePriceUSD is a per-day price rather
// than a flat total for the whole duration.
func (p *Plan) IsDailyUnlimited() bool {
	return p.VolumeBytes == VolumeUnlimited
}

// SizeGB returns the plan's data size in GB for discount-tier matching.
// Unlimited plans are normalized to the daily allowance.
func (p *Plan) SizeGB() float64 {
	if p.IsDailyUnlimited() {
		return DailyUnlimitedSizeGB
	}
	return float64(p.VolumeBytes) / bytesPerGB
}

// Catalog supplies plan records. Owned by the external plan catalog; the
// engine only reads through it.
type Catalog interface {
	GetPlan(ctx context.Context, packageCode string) (*Plan, error)
	ListPlans(ctx context.Context) ([]*Plan, error)
}
