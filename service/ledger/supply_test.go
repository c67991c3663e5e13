package ledger

import (
	"context"
	"testing"
	"time"

	"creditmarket/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwoEqualSupplies(t *testing.T) {
	f := newFixture(t)

	a := f.supply(t, alice, 100)
	b := f.supply(t, bob, 100)

	assert.Equal(t, "100000000", a.String())
	assert.Equal(t, a.String(), b.String())

	m := f.market(t)
	assert.Equal(t, "200", m.TotalSupplyAssets.String())
	assert.Equal(t, "200000000", m.TotalSupplyShares.String())
	assert.Equal(t, "200", f.book.Balance(loanToken, vault).String())
}

func TestSupplyByShares(t *testing.T) {
	f := newFixture(t)
	f.supply(t, alice, 100)

	f.book.Mint(loanToken, bob, decimal.NewFromInt(100))
	assets, shares, err := f.svc.Supply(f.ctx, bob, f.params, decimal.Zero, decimal.NewFromInt(50000000), bob)
	require.NoError(t, err)
	assert.Equal(t, "50", assets.String())
	assert.Equal(t, "50000000", shares.String())
	assert.Equal(t, "50", f.book.Balance(loanToken, bob).String())
}

func TestSupplyValidation(t *testing.T) {
	f := newFixture(t)
	f.book.Mint(loanToken, alice, decimal.NewFromInt(1000))

	for _, c := range []struct {
		name     string
		assets   decimal.Decimal
		shares   decimal.Decimal
		onBehalf common.Address
		err      error
	}{
		{"neither", decimal.Zero, decimal.Zero, alice, core.ErrInconsistentInput},
		{"both", decimal.NewFromInt(1), decimal.NewFromInt(1), alice, core.ErrInconsistentInput},
		{"negative", decimal.NewFromInt(-1), decimal.Zero, alice, core.ErrInvalidAmount},
		{"fractional", decimal.NewFromFloat(1.5), decimal.Zero, alice, core.ErrInvalidAmount},
		{"zero account", decimal.NewFromInt(1), decimal.Zero, common.Address{}, core.ErrZeroAddress},
	} {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := f.svc.Supply(f.ctx, alice, f.params, c.assets, c.shares, c.onBehalf)
			assert.Equal(t, c.err, err)
		})
	}

	other := f.params
	other.LLTV = decimal.New(9, 17)
	_, _, err := f.svc.Supply(f.ctx, alice, other, decimal.NewFromInt(1), decimal.Zero, alice)
	assert.Equal(t, core.ErrMarketNotCreated, err)

	assert.True(t, f.market(t).TotalSupplyAssets.IsZero())
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	f.supply(t, alice, 1000)
	f.creditLine(t, bob, decimal.NewFromInt(2000), decimal.Zero)
	require.NoError(t, f.borrow(bob, decimal.NewFromInt(800)))

	withdraw := func(caller, onBehalf common.Address, assets int64) error {
		_, _, err := f.svc.Withdraw(f.ctx, caller, f.params, decimal.NewFromInt(assets), decimal.Zero, onBehalf, caller)
		return err
	}

	assert.Equal(t, core.ErrInsufficientLiquidity, withdraw(alice, alice, 201))
	assert.Equal(t, core.ErrUnauthorized, withdraw(carol, alice, 1))
	assert.Equal(t, core.ErrInsufficientBalance, withdraw(bob, bob, 1))

	require.NoError(t, withdraw(alice, alice, 200))
	assert.Equal(t, "200", f.book.Balance(loanToken, alice).String())

	m := f.market(t)
	assert.Equal(t, "800", m.TotalSupplyAssets.String())
	assert.True(t, m.TotalBorrowAssets.LessThanOrEqual(m.TotalSupplyAssets))

	// delegated withdraw pays the receiver
	require.NoError(t, f.svc.SetAuthorization(f.ctx, alice, carol, true))
	assert.Equal(t, core.ErrAlreadySet, f.svc.SetAuthorization(f.ctx, alice, carol, true))
	require.NoError(t, withdraw(carol, alice, 100))
	assert.Equal(t, "100", f.book.Balance(loanToken, carol).String())

	require.NoError(t, f.svc.SetAuthorization(f.ctx, alice, carol, false))
	assert.Equal(t, core.ErrUnauthorized, withdraw(carol, alice, 1))
}

func TestWithdrawAllByShares(t *testing.T) {
	f := newFixture(t)
	shares := f.supply(t, alice, 1000)

	assets, burned, err := f.svc.Withdraw(f.ctx, alice, f.params, decimal.Zero, shares, alice, alice)
	require.NoError(t, err)
	assert.Equal(t, "1000", assets.String())
	assert.True(t, burned.Equal(shares))

	m := f.market(t)
	assert.True(t, m.TotalSupplyAssets.IsZero())
	assert.True(t, m.TotalSupplyShares.IsZero())
	assert.True(t, f.position(t, alice).SupplyShares.IsZero())
}

type failingTransfer struct {
	core.AssetTransfer
}

func (failingTransfer) TransferIn(ctx context.Context, asset, from common.Address, amount decimal.Decimal) error {
	return errTransfer
}

type transferError string

func (e transferError) Error() string { return string(e) }

const errTransfer = transferError("transfer rejected")

func TestTransferFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.supply(t, alice, 1000)
	f.creditLine(t, bob, decimal.NewFromInt(2000), decimal.Zero)
	require.NoError(t, f.borrow(bob, decimal.NewFromInt(500)))

	// carol holds no tokens, the pull fails after the records were written
	f.now += 30 * day
	before := f.market(t)
	_, _, err := f.svc.Supply(f.ctx, carol, f.params, decimal.NewFromInt(10), decimal.Zero, carol)
	require.Error(t, err)

	after := f.market(t)
	assert.True(t, before.Equal(after), "market must be restored")
	assert.Equal(t, before.LastUpdate, after.LastUpdate)
	assert.True(t, f.position(t, carol).SupplyShares.IsZero())
}

func TestTransferErrorPropagates(t *testing.T) {
	f := newFixture(t, withTransfer(func(inner core.AssetTransfer) core.AssetTransfer {
		return failingTransfer{inner}
	}))

	f.book.Mint(loanToken, alice, decimal.NewFromInt(10))
	_, _, err := f.svc.Supply(f.ctx, alice, f.params, decimal.NewFromInt(10), decimal.Zero, alice)
	assert.Equal(t, errTransfer, err)
	assert.True(t, f.market(t).TotalSupplyAssets.IsZero())
}

type reentrantTransfer struct {
	core.AssetTransfer
	svc    func() *Service
	params core.MarketParams
	fresh  bool
	errs   []error
}

func (r *reentrantTransfer) TransferIn(ctx context.Context, asset, from common.Address, amount decimal.Decimal) error {
	callCtx := ctx
	if r.fresh {
		callCtx = context.Background()
	}
	r.errs = append(r.errs, r.svc().AccrueInterest(callCtx, r.params))
	return r.AssetTransfer.TransferIn(ctx, asset, from, amount)
}

func TestReentrancyRejected(t *testing.T) {
	var (
		f  *fixture
		rt *reentrantTransfer
	)

	f = newFixture(t, withTransfer(func(inner core.AssetTransfer) core.AssetTransfer {
		rt = &reentrantTransfer{AssetTransfer: inner, svc: func() *Service { return f.svc }}
		return rt
	}))
	rt.params = f.params

	f.supply(t, alice, 100)
	require.Len(t, rt.errs, 1)
	assert.Equal(t, core.ErrReentrancy, rt.errs[0])
	assert.Equal(t, "100", f.market(t).TotalSupplyAssets.String())
}

func TestReentrancyWithFreshContextRejected(t *testing.T) {
	var (
		f  *fixture
		rt *reentrantTransfer
	)

	f = newFixture(t, withTransfer(func(inner core.AssetTransfer) core.AssetTransfer {
		rt = &reentrantTransfer{AssetTransfer: inner, svc: func() *Service { return f.svc }, fresh: true}
		return rt
	}), func(f *fixture, opts *[]Option) {
		*opts = append(*opts, WithReentrancyWait(20*time.Millisecond))
	})
	rt.params = f.params

	f.supply(t, alice, 100)
	require.Len(t, rt.errs, 1)
	assert.Equal(t, core.ErrReentrancy, rt.errs[0])
	assert.Equal(t, "100", f.market(t).TotalSupplyAssets.String())

	// the call token is released afterwards
	f.supply(t, bob, 50)
	assert.Equal(t, "150", f.market(t).TotalSupplyAssets.String())
}
