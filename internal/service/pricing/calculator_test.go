package pricing

import (
	"testing"

	"esim-pricing-service/internal/domain/plan"
	xerrors "esim-pricing-service/internal/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func flatPlan(code, price string, gb int64) *plan.Plan {
	return &plan.Plan{
		PackageCode:  code,
		BasePriceUSD: dec(price),
		VolumeBytes:  gb << 30,
		Duration:     7,
		DurationUnit: plan.DurationDay,
	}
}

func unlimitedPlan(code, dailyPrice string, days int) *plan.Plan {
	return &plan.Plan{
		PackageCode:  code,
		BasePriceUSD: dec(dailyPrice),
		VolumeBytes:  plan.VolumeUnlimited,
		Duration:     days,
		DurationUnit: plan.DurationDay,
	}
}

func TestComputeFinalUSD_FlatNoOverrideNoDiscount(t *testing.T) {
	p := flatPlan("EU7-5GB", "10.00", 5)

	got, err := ComputeFinalUSD(p, nil, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("10.00")), "got %s", got)
}

func TestComputeFinalUSD_OverridePrecedence(t *testing.T) {
	p := flatPlan("EU7-5GB", "10.00", 5)
	ov := dec("8.00")

	got, err := ComputeFinalUSD(p, &ov, dec("10"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("7.20")), "8.00 x 0.90 = 7.20, got %s", got)
}

func TestComputeFinalUSD_DailyUnlimited(t *testing.T) {
	p := unlimitedPlan("UNL-10D", "2.00", 10)

	got, err := ComputeFinalUSD(p, nil, dec("20"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("16.00")), "2.00 x 0.80 x 10 = 16.00, got %s", got)
}

func TestComputeFinalUSD_DailyUnlimitedNoDiscount(t *testing.T) {
	p := unlimitedPlan("UNL-10D", "2.00", 10)

	got, err := ComputeFinalUSD(p, nil, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("20.00")), "base x duration, got %s", got)
}

func TestComputeFinalUSD_MonotonicInPercent(t *testing.T) {
	p := flatPlan("X", "9.99", 5)

	prev := dec("9.99").Add(dec("1"))
	for pctInt := 0; pctInt <= 100; pctInt += 5 {
		pct := decimal.NewFromInt(int64(pctInt))
		got, err := ComputeFinalUSD(p, nil, pct)
		require.NoError(t, err)
		assert.True(t, got.LessThanOrEqual(prev),
			"discounted price must be non-increasing in percent (%d%%: %s > %s)", pctInt, got, prev)
		assert.False(t, got.IsNegative())
		prev = got
	}

	// Zero percent reproduces the undiscounted price exactly.
	got, err := ComputeFinalUSD(p, nil, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("9.99")))
}

// Without intermediate rounding, discount-then-multiply equals
// multiply-then-discount; the contract is that rounding happens only once,
// at formatting time, so the two orders can never diverge inside the
// calculator.
func TestComputeFinalUSD_DailyOrderingLaw(t *testing.T) {
	daily := dec("1.99")
	days := decimal.NewFromInt(30)
	pct := dec("33")
	factor := decimal.NewFromInt(1).Sub(pct.Div(decimal.NewFromInt(100)))

	discountFirst := daily.Mul(factor).Mul(days)
	multiplyFirst := daily.Mul(days).Mul(factor)
	assert.True(t, discountFirst.Equal(multiplyFirst))

	p := unlimitedPlan("UNL-30D", "1.99", 30)
	got, err := ComputeFinalUSD(p, nil, pct)
	require.NoError(t, err)
	assert.True(t, got.Equal(discountFirst))
}

func TestComputeFinalUSD_RejectsOutOfDomainInputs(t *testing.T) {
	p := flatPlan("X", "10.00", 5)

	_, err := ComputeFinalUSD(p, nil, dec("101"))
	assert.ErrorIs(t, err, xerrors.ErrValidation)

	_, err = ComputeFinalUSD(p, nil, dec("-1"))
	assert.ErrorIs(t, err, xerrors.ErrValidation)

	neg := dec("-5")
	_, err = ComputeFinalUSD(p, &neg, decimal.Zero)
	assert.ErrorIs(t, err, xerrors.ErrValidation)

	bad := unlimitedPlan("UNL", "2.00", 0)
	_, err = ComputeFinalUSD(bad, nil, decimal.Zero)
	assert.ErrorIs(t, err, xerrors.ErrValidation)
}
