package ledger

import (
	"testing"

	"creditmarket/core"
	"creditmarket/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCreditLine(t *testing.T) {
	f := newFixture(t, withPremium())

	credit := decimal.NewFromInt(1000)
	assert.Equal(t, core.ErrNotCreditLine, f.svc.SetCreditLine(f.ctx, bob, f.id(), bob, credit, premiumRate))
	assert.Equal(t, core.ErrZeroAddress, f.svc.SetCreditLine(f.ctx, creditLine, f.id(), common.Address{}, credit, premiumRate))
	assert.Equal(t, core.ErrInvalidRate, f.svc.SetCreditLine(f.ctx, creditLine, f.id(), bob, credit, decimal.NewFromInt(-1)))
	assert.Equal(t, core.ErrInvalidAmount, f.svc.SetCreditLine(f.ctx, creditLine, f.id(), bob, decimal.NewFromInt(-1), premiumRate))
	assert.Equal(t, core.ErrMarketNotCreated, f.svc.SetCreditLine(f.ctx, creditLine, common.HexToHash("0x01"), bob, credit, premiumRate))

	f.creditLine(t, bob, credit, premiumRate)
	assert.Equal(t, "1000", f.position(t, bob).Collateral.String())

	p := f.premium(t, bob)
	assert.True(t, p.Rate.Equal(premiumRate))
	// no debt yet, the baseline is taken at the first borrow
	assert.Equal(t, int64(0), p.LastAccrualTime)
}

func TestSetCreditLineWithoutPremium(t *testing.T) {
	f := newFixture(t)

	err := f.svc.SetCreditLine(f.ctx, creditLine, f.id(), bob, decimal.NewFromInt(1000), premiumRate)
	assert.Equal(t, core.ErrPremiumDisabled, err)
	assert.True(t, f.position(t, bob).Collateral.IsZero())

	f.creditLine(t, bob, decimal.NewFromInt(1000), decimal.Zero)
	assert.Equal(t, "1000", f.position(t, bob).Collateral.String())
}

func TestPremiumNotDoubleCounted(t *testing.T) {
	f := newFixture(t, withPremium())

	f.supplyWei(t, alice, number.Decimal("1000000000000000000000000"))
	f.creditLine(t, bob, number.Decimal("1000000000000000000000000"), premiumRate)

	snapshot := number.Decimal("500000000000000000000000")
	require.NoError(t, f.borrow(bob, snapshot))

	p := f.premium(t, bob)
	assert.Equal(t, t0, p.LastAccrualTime)
	assert.Equal(t, snapshot.String(), p.BorrowAssetsAtLastAccrual.String())

	elapsed := 30 * day
	f.now += elapsed
	require.NoError(t, f.svc.AccrueBorrowerPremium(f.ctx, f.id(), bob))

	debt := f.debt(t, bob)
	want := snapshot.Add(number.WMulDown(snapshot, number.WTaylorCompounded(baseRate.Add(premiumRate), elapsed)))
	diff := debt.Sub(want).Abs()
	assert.True(t, diff.LessThan(want.Div(decimal.NewFromInt(100000))), "debt %s want %s", debt, want)

	baseOnly := snapshot.Add(number.WMulDown(snapshot, number.WTaylorCompounded(baseRate, elapsed)))
	assert.True(t, debt.GreaterThan(baseOnly))

	p = f.premium(t, bob)
	assert.Equal(t, f.now, p.LastAccrualTime)
	assert.Equal(t, debt.String(), p.BorrowAssetsAtLastAccrual.String())

	m := f.market(t)
	assert.True(t, m.TotalBorrowAssets.LessThanOrEqual(m.TotalSupplyAssets))

	// same instant, nothing more to settle
	require.NoError(t, f.svc.AccrueBorrowerPremium(f.ctx, f.id(), bob))
	assert.True(t, f.market(t).Equal(m))
}

func TestPremiumElapsedCap(t *testing.T) {
	f := newFixture(t, withPremium(), withRateModel(common.Address{}))

	f.supplyWei(t, alice, number.Decimal("1000000000000000000000"))
	f.creditLine(t, bob, number.Decimal("1000000000000000000000"), premiumRate)

	snapshot := number.Decimal("500000000000000000000")
	require.NoError(t, f.borrow(bob, snapshot))

	f.now += 10 * year
	require.NoError(t, f.svc.AccrueBorrowerPremium(f.ctx, f.id(), bob))

	capped := number.WMulDown(snapshot, number.WTaylorCompounded(premiumRate, year))
	assert.Equal(t, "25635416663546556500", capped.String())

	m := f.market(t)
	assert.Equal(t, snapshot.Add(capped).String(), m.TotalBorrowAssets.String())
	assert.Equal(t, "1025635416663546556500", m.TotalSupplyAssets.String())

	uncapped := number.WMulDown(snapshot, number.WTaylorCompounded(premiumRate, 10*year))
	assert.True(t, m.TotalBorrowAssets.Sub(snapshot).LessThan(uncapped))
}

func TestPremiumElapsedCapWithBaseRate(t *testing.T) {
	f := newFixture(t, withPremium())

	f.supplyWei(t, alice, number.Decimal("1000000000000000000000"))
	f.creditLine(t, bob, number.Decimal("1000000000000000000000"), premiumRate)

	snapshot := number.Decimal("500000000000000000000")
	require.NoError(t, f.borrow(bob, snapshot))

	f.now += 10 * year
	require.NoError(t, f.svc.AccrueBorrowerPremium(f.ctx, f.id(), bob))

	interest := number.WMulDown(snapshot, number.WTaylorCompounded(baseRate, 10*year))
	assert.Equal(t, "833333333184933333000", interest.String())

	m := f.market(t)
	assert.Equal(t, "1361656249846932560000", m.TotalBorrowAssets.String())
	assert.Equal(t, "1861656249846932560000", m.TotalSupplyAssets.String())

	// premium covers one year on top of the base rate, not ten
	minted := m.TotalBorrowAssets.Sub(snapshot).Sub(interest)
	want := number.WMulDown(snapshot, number.WTaylorCompounded(baseRate.Add(premiumRate), year)).
		Sub(number.WMulDown(snapshot, number.WTaylorCompounded(baseRate, year)))
	assert.True(t, want.Sub(minted).Abs().LessThan(want.Div(decimal.NewFromInt(1000000))), "minted %s want %s", minted, want)
}

func TestPremiumBelowThreshold(t *testing.T) {
	f := newFixture(t, withPremium(), withRateModel(common.Address{}))

	f.supply(t, alice, 1000)
	f.creditLine(t, bob, decimal.NewFromInt(1000), decimal.NewFromInt(1))
	require.NoError(t, f.borrow(bob, decimal.NewFromInt(10)))
	shares := f.position(t, bob).BorrowShares

	f.now += day
	require.NoError(t, f.svc.AccrueBorrowerPremium(f.ctx, f.id(), bob))

	assert.True(t, f.position(t, bob).BorrowShares.Equal(shares))
	assert.Equal(t, f.now, f.premium(t, bob).LastAccrualTime)
	assert.Equal(t, "10", f.market(t).TotalBorrowAssets.String())
}

func TestPremiumSettledOnBorrow(t *testing.T) {
	f := newFixture(t, withPremium(), withRateModel(common.Address{}))

	f.supplyWei(t, alice, number.Decimal("1000000000000000000000"))
	f.creditLine(t, bob, number.Decimal("1000000000000000000000"), premiumRate)
	snapshot := number.Decimal("500000000000000000000")
	require.NoError(t, f.borrow(bob, snapshot))

	f.now += year
	require.NoError(t, f.borrow(bob, decimal.NewFromInt(1)))

	capped := number.WMulDown(snapshot, number.WTaylorCompounded(premiumRate, year))
	m := f.market(t)
	assert.Equal(t, snapshot.Add(capped).Add(decimal.NewFromInt(1)).String(), m.TotalBorrowAssets.String())

	p := f.premium(t, bob)
	assert.Equal(t, f.now, p.LastAccrualTime)
	assert.Equal(t, f.debt(t, bob).String(), p.BorrowAssetsAtLastAccrual.String())
}

func TestPremiumRateChangeSettlesOldRate(t *testing.T) {
	f := newFixture(t, withPremium(), withRateModel(common.Address{}))

	f.supplyWei(t, alice, number.Decimal("1000000000000000000000"))
	f.creditLine(t, bob, number.Decimal("1000000000000000000000"), premiumRate)
	snapshot := number.Decimal("500000000000000000000")
	require.NoError(t, f.borrow(bob, snapshot))

	f.now += year
	f.creditLine(t, bob, number.Decimal("1000000000000000000000"), decimal.Zero)

	capped := number.WMulDown(snapshot, number.WTaylorCompounded(premiumRate, year))
	assert.Equal(t, snapshot.Add(capped).String(), f.market(t).TotalBorrowAssets.String())
	assert.True(t, f.premium(t, bob).Rate.IsZero())

	// no premium under the new zero rate
	f.now += year
	require.NoError(t, f.svc.AccrueBorrowerPremium(f.ctx, f.id(), bob))
	assert.Equal(t, snapshot.Add(capped).String(), f.market(t).TotalBorrowAssets.String())
}

func TestPremiumFee(t *testing.T) {
	f := newFixture(t, withPremium(), withRateModel(common.Address{}))
	require.NoError(t, f.svc.SetFee(f.ctx, owner, f.params, number.Decimal("100000000000000000")))

	f.supplyWei(t, alice, number.Decimal("1000000000000000000000"))
	f.creditLine(t, bob, number.Decimal("1000000000000000000000"), premiumRate)
	require.NoError(t, f.borrow(bob, number.Decimal("500000000000000000000")))

	f.now += year
	require.NoError(t, f.svc.AccrueBorrowerPremium(f.ctx, f.id(), bob))
	assert.True(t, f.position(t, feeRecipient).SupplyShares.IsPositive())
}

func TestAccrueBorrowerPremiums(t *testing.T) {
	f := newFixture(t, withPremium(), withRateModel(common.Address{}))

	f.supplyWei(t, alice, number.Decimal("1000000000000000000000"))
	for _, b := range []common.Address{bob, carol} {
		f.creditLine(t, b, number.Decimal("1000000000000000000000"), premiumRate)
		require.NoError(t, f.borrow(b, number.Decimal("100000000000000000000")))
	}

	assert.Equal(t, core.ErrEmptyBorrowers, f.svc.AccrueBorrowerPremiums(f.ctx, f.id(), nil))

	f.now += year
	before := f.position(t, bob).BorrowShares

	// one bad entry aborts the whole batch
	err := f.svc.AccrueBorrowerPremiums(f.ctx, f.id(), []common.Address{bob, {}})
	assert.Equal(t, core.ErrZeroAddress, err)
	assert.True(t, f.position(t, bob).BorrowShares.Equal(before))

	require.NoError(t, f.svc.AccrueBorrowerPremiums(f.ctx, f.id(), []common.Address{bob, carol}))
	assert.True(t, f.position(t, bob).BorrowShares.GreaterThan(before))
	assert.Equal(t, f.now, f.premium(t, bob).LastAccrualTime)
	assert.Equal(t, f.now, f.premium(t, carol).LastAccrualTime)
}
