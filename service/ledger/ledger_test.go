package ledger

import (
	"context"
	"testing"

	"creditmarket/core"
	"creditmarket/internal/irm"
	"creditmarket/internal/oracle"
	"creditmarket/pkg/number"
	"creditmarket/pkg/shares"
	"creditmarket/service/account"
	"creditmarket/service/premium"
	"creditmarket/service/protocol"
	"creditmarket/service/transfer"
	storeledger "creditmarket/store/ledger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	day  int64 = 24 * 3600
	year int64 = 365 * day
	t0   int64 = 1700000000
)

var (
	owner        = common.HexToAddress("0x1000")
	feeRecipient = common.HexToAddress("0x1001")
	creditLine   = common.HexToAddress("0x1002")
	loanToken    = common.HexToAddress("0x2000")
	collateral   = common.HexToAddress("0x2001")
	oracleAddr   = common.HexToAddress("0x3000")
	fixedIrm     = common.HexToAddress("0x4000")
	jumpIrm      = common.HexToAddress("0x4001")
	vault        = common.HexToAddress("0x5000")

	alice = common.HexToAddress("0xa11ce")
	bob   = common.HexToAddress("0xb0b")
	carol = common.HexToAddress("0xca201")

	lltv = number.Decimal("800000000000000000")
	// 10% a year
	baseRate = number.Decimal("3170979198")
	// 5% a year
	premiumRate = number.Decimal("1585489599")
)

type fixture struct {
	ctx    context.Context
	svc    *Service
	store  core.LedgerStore
	book   *transfer.Book
	oracle *oracle.Static
	jump   *irm.JumpRate
	params core.MarketParams
	now    int64
}

type fixtureOption func(f *fixture, opts *[]Option)

func withPremium() fixtureOption {
	return func(f *fixture, opts *[]Option) {
		*opts = append(*opts, WithPremium(premium.New(premium.Config{})))
	}
}

func withRateModel(addr common.Address) fixtureOption {
	return func(f *fixture, opts *[]Option) {
		f.params.RateModel = addr
	}
}

func withTransfer(wrap func(core.AssetTransfer) core.AssetTransfer) fixtureOption {
	return func(f *fixture, opts *[]Option) {
		*opts = append(*opts, func(s *Service) {
			s.transfer = wrap(s.transfer)
		})
	}
}

func newFixture(t *testing.T, fopts ...fixtureOption) *fixture {
	t.Helper()

	f := &fixture{
		ctx:    context.Background(),
		store:  storeledger.Memory(),
		book:   transfer.New(vault),
		oracle: oracle.NewStatic(oracle.PriceScale),
		jump:   irm.NewJumpRate(number.Decimal("20000000000000000"), number.Decimal("100000000000000000"), number.Decimal("1000000000000000000"), number.Decimal("800000000000000000")),
		now:    t0,
		params: core.MarketParams{
			LoanToken:       loanToken,
			CollateralToken: collateral,
			Oracle:          oracleAddr,
			RateModel:       fixedIrm,
			LLTV:            lltv,
			CreditLine:      creditLine,
		},
	}

	models := irm.NewRegistry()
	models.Register(fixedIrm, &irm.Fixed{Rate: baseRate})
	models.Register(jumpIrm, f.jump)

	oracles := oracle.NewRegistry()
	oracles.Register(oracleAddr, f.oracle)

	cfg := protocol.Static(core.Protocol{
		Owner:        owner,
		FeeRecipient: feeRecipient,
		RateModels:   []common.Address{fixedIrm, jumpIrm, {}},
		Lltvs:        []decimal.Decimal{lltv},
	})

	opts := []Option{WithClock(func() int64 { return f.now })}
	for _, fo := range fopts {
		fo(f, &opts)
	}

	f.svc = New(f.store, cfg, models, f.book, account.New(oracles), opts...)

	_, err := f.svc.CreateMarket(f.ctx, carol, f.params)
	require.NoError(t, err)
	return f
}

func (f *fixture) id() core.MarketID {
	return f.params.ID()
}

func (f *fixture) market(t *testing.T) *core.Market {
	m, err := f.svc.Market(f.ctx, f.id())
	require.NoError(t, err)
	return m
}

func (f *fixture) position(t *testing.T, account common.Address) *core.Position {
	p, err := f.svc.Position(f.ctx, f.id(), account)
	require.NoError(t, err)
	return p
}

func (f *fixture) premium(t *testing.T, borrower common.Address) *core.BorrowerPremium {
	p, err := f.svc.Premium(f.ctx, f.id(), borrower)
	require.NoError(t, err)
	return p
}

func (f *fixture) supply(t *testing.T, account common.Address, assets int64) decimal.Decimal {
	amount := decimal.NewFromInt(assets)
	f.book.Mint(loanToken, account, amount)
	_, minted, err := f.svc.Supply(f.ctx, account, f.params, amount, decimal.Zero, account)
	require.NoError(t, err)
	return minted
}

func (f *fixture) supplyWei(t *testing.T, account common.Address, assets decimal.Decimal) {
	f.book.Mint(loanToken, account, assets)
	_, _, err := f.svc.Supply(f.ctx, account, f.params, assets, decimal.Zero, account)
	require.NoError(t, err)
}

func (f *fixture) creditLine(t *testing.T, borrower common.Address, credit, rate decimal.Decimal) {
	require.NoError(t, f.svc.SetCreditLine(f.ctx, creditLine, f.id(), borrower, credit, rate))
}

func (f *fixture) borrow(account common.Address, assets decimal.Decimal) error {
	_, _, err := f.svc.Borrow(f.ctx, account, f.params, assets, decimal.Zero, account, account)
	return err
}

func (f *fixture) debt(t *testing.T, account common.Address) decimal.Decimal {
	m := f.market(t)
	p := f.position(t, account)
	return shares.ToAssetsUp(p.BorrowShares, m.TotalBorrowAssets, m.TotalBorrowShares)
}
