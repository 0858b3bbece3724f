// internal/service/pricing/calculator.go
package pricing

import (
	"esim-pricing-service/internal/domain/plan"
	xerrors "esim-pricing-service/internal/pkg/errors"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// ComputeFinalUSD combines the base or override price, the discount percent
// and the plan's billing shape into the final USD amount.
//
// Flat-total plans discount the total directly. Daily-unlimited plans carry
// a per-day base price: the discount applies to the daily price first and
// the total is derived afterwards. The order matters for rounding, which is
// why no intermediate rounding happens here; callers round once, at
// currency formatting time.
func ComputeFinalUSD(p *plan.Plan, override *decimal.Decimal, percent decimal.Decimal) (decimal.Decimal, error) {
	base := p.BasePriceUSD
	if override != nil {
		base = *override
	}

	// Values outside their documented domain must never reach this point
	// silently; reject instead of clamping.
	if base.IsNegative() {
		return decimal.Decimal{}, xerrors.Validationf("negative price for plan %q", p.PackageCode)
	}
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return decimal.Decimal{}, xerrors.Validationf("discount percent %s outside [0,100] for plan %q", percent, p.PackageCode)
	}

	final := base.Mul(one.Sub(percent.Div(hundred)))

	if p.IsDailyUnlimited() {
		if p.Duration <= 0 {
			return decimal.Decimal{}, xerrors.Validationf("non-positive duration for plan %q", p.PackageCode)
		}
		final = final.Mul(decimal.NewFromInt(int64(p.Duration)))
	}

	return final, nil
}
