package compound

import (
	"testing"

	"creditmarket/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPremiumAmount(t *testing.T) {
	base := number.Decimal("3170979198")
	premium := number.Decimal("1585489599")
	elapsed := int64(30 * 24 * 3600)

	snapshot := number.Decimal("500000000000000000000000")
	current := snapshot.Add(number.WMulDown(snapshot, number.WTaylorCompounded(base, elapsed)))
	assert.Equal(t, "504126524033162138500000", current.String())

	got := PremiumAmount(snapshot, current, premium, elapsed, year)
	assert.Equal(t, "2076015315277060000000", got.String())

	// base rate is recovered exactly, so base and premium compound together
	want := number.WMulDown(snapshot, number.WTaylorCompounded(base.Add(premium), elapsed)).Sub(current.Sub(snapshot))
	assert.Equal(t, want.String(), got.String())
}

func TestPremiumAmountCapped(t *testing.T) {
	base := number.Decimal("3170979198")
	premium := number.Decimal("1585489599")
	snapshot := number.Decimal("500000000000000000000")

	// ten years of base interest landed in one accrual
	current := snapshot.Add(number.WMulDown(snapshot, number.WTaylorCompounded(base, 10*year)))
	assert.Equal(t, "1333333333184933333000", current.String())

	got := PremiumAmount(snapshot, current, premium, 10*year, year)
	assert.Equal(t, "28322916662886177000", got.String())

	// marginal premium over one year at the real base rate
	want := number.WMulDown(snapshot, number.WTaylorCompounded(base.Add(premium), year)).
		Sub(number.WMulDown(snapshot, number.WTaylorCompounded(base, year)))
	assert.Equal(t, want.String(), got.String())

	// two years stale charges the same single year
	current = snapshot.Add(number.WMulDown(snapshot, number.WTaylorCompounded(base, 2*year)))
	assert.Equal(t, got.String(), PremiumAmount(snapshot, current, premium, 2*year, year).String())

	// about 5.7% of the snapshot, nowhere near ten years of compounding
	assert.True(t, got.LessThan(number.WMulDown(snapshot, number.Decimal("60000000000000000"))))
}

func TestPremiumAmountWithoutBaseGrowth(t *testing.T) {
	premium := number.Decimal("1585489599")
	snapshot := decimal.NewFromInt(1000000)

	got := PremiumAmount(snapshot, snapshot, premium, year, year)
	want := number.WMulDown(snapshot, number.WTaylorCompounded(premium, year))
	assert.Equal(t, want.String(), got.String())
	assert.True(t, got.IsPositive())
}

func TestPremiumAmountEdges(t *testing.T) {
	premium := number.Decimal("1585489599")

	assert.True(t, PremiumAmount(decimal.Zero, decimal.NewFromInt(10), premium, year, year).IsZero())
	assert.True(t, PremiumAmount(decimal.NewFromInt(10), decimal.NewFromInt(10), premium, 0, year).IsZero())
	assert.True(t, PremiumAmount(decimal.NewFromInt(10), decimal.NewFromInt(10), decimal.Zero, year, year).IsZero())

	// debt shrank since the snapshot, premium still never negative
	assert.False(t, PremiumAmount(decimal.NewFromInt(1000), decimal.NewFromInt(10), premium, year, year).IsNegative())
}
