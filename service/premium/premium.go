package premium

import (
	"context"

	"creditmarket/core"
	"creditmarket/pkg/compound"
	"creditmarket/pkg/metrics"
	"creditmarket/pkg/number"
	"creditmarket/pkg/shares"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	// DefaultMaxElapsed premium accrual covers at most one year per settlement
	DefaultMaxElapsed int64 = 365 * 24 * 3600
)

// DefaultMinPremiumThreshold premiums below it are not minted
var DefaultMinPremiumThreshold = decimal.NewFromInt(1)

// Config premium accrual tuning
type Config struct {
	MaxElapsed          int64
	MinPremiumThreshold decimal.Decimal
	Metrics             *metrics.Ledger
}

type premiumAccrual struct {
	maxElapsed   int64
	minThreshold decimal.Decimal
	metrics      *metrics.Ledger
}

// New borrower premium strategy
func New(cfg Config) core.PremiumAccrual {
	p := &premiumAccrual{
		maxElapsed:   cfg.MaxElapsed,
		minThreshold: cfg.MinPremiumThreshold,
		metrics:      cfg.Metrics,
	}

	if p.maxElapsed <= 0 {
		p.maxElapsed = DefaultMaxElapsed
	}

	if !p.minThreshold.IsPositive() {
		p.minThreshold = DefaultMinPremiumThreshold
	}

	return p
}

func (p *premiumAccrual) Before(ctx context.Context, tx core.LedgerTx, action core.ActionType, id core.MarketID, account common.Address) error {
	if !action.ChangesDebt() {
		return nil
	}

	return p.Accrue(ctx, tx, id, account)
}

func (p *premiumAccrual) After(ctx context.Context, tx core.LedgerTx, action core.ActionType, id core.MarketID, account common.Address) error {
	if !action.ChangesDebt() {
		return nil
	}

	return p.Snapshot(ctx, tx, id, account)
}

// Accrue mint the premium owed since the last accrual as borrow shares.
// Market interest must already be accrued.
func (p *premiumAccrual) Accrue(ctx context.Context, tx core.LedgerTx, id core.MarketID, borrower common.Address) error {
	premium, err := tx.Premium(id, borrower)
	if err != nil {
		return err
	}

	if !premium.Rate.IsPositive() || premium.LastAccrualTime == 0 {
		return nil
	}

	position, err := tx.Position(id, borrower)
	if err != nil {
		return err
	}

	if position.BorrowShares.IsZero() {
		return nil
	}

	elapsed := tx.Now() - premium.LastAccrualTime
	if elapsed <= 0 {
		return nil
	}

	market, err := tx.Market(id)
	if err != nil {
		return err
	}

	current := shares.ToAssetsUp(position.BorrowShares, market.TotalBorrowAssets, market.TotalBorrowShares)
	amount := compound.PremiumAmount(premium.BorrowAssetsAtLastAccrual, current, premium.Rate, elapsed, p.maxElapsed)

	premium.LastAccrualTime = tx.Now()
	if amount.LessThan(p.minThreshold) {
		return nil
	}

	premiumShares := shares.ToSharesUp(amount, market.TotalBorrowAssets, market.TotalBorrowShares)
	position.BorrowShares = position.BorrowShares.Add(premiumShares)
	market.TotalBorrowShares = market.TotalBorrowShares.Add(premiumShares)
	market.TotalBorrowAssets = market.TotalBorrowAssets.Add(amount)
	market.TotalSupplyAssets = market.TotalSupplyAssets.Add(amount)

	var feeShares decimal.Decimal
	if market.Fee.IsPositive() {
		feeShares = compound.MintFeeShares(market, number.WMulDown(amount, market.Fee))
		if feeShares.IsPositive() {
			recipient, err := tx.Position(id, tx.FeeRecipient())
			if err != nil {
				return err
			}
			recipient.SupplyShares = recipient.SupplyShares.Add(feeShares)
		}
	}

	p.metrics.PremiumAccrued(id.Hex())
	logger.FromContext(ctx).WithField("market", id.Hex()).
		WithField("borrower", borrower.Hex()).
		Debugf("premium accrued %s over %ds, fee shares %s", amount, elapsed, feeShares)

	return nil
}

// Snapshot re-baseline the borrower debt from the current borrow shares
func (p *premiumAccrual) Snapshot(ctx context.Context, tx core.LedgerTx, id core.MarketID, borrower common.Address) error {
	premium, err := tx.Premium(id, borrower)
	if err != nil {
		return err
	}

	if !premium.Rate.IsPositive() {
		return nil
	}

	position, err := tx.Position(id, borrower)
	if err != nil {
		return err
	}

	market, err := tx.Market(id)
	if err != nil {
		return err
	}

	premium.BorrowAssetsAtLastAccrual = shares.ToAssetsUp(position.BorrowShares, market.TotalBorrowAssets, market.TotalBorrowShares)
	premium.LastAccrualTime = tx.Now()
	return nil
}

// SetRate settle under the old rate, then switch and re-baseline
func (p *premiumAccrual) SetRate(ctx context.Context, tx core.LedgerTx, id core.MarketID, borrower common.Address, rate decimal.Decimal) error {
	if rate.IsNegative() {
		return core.ErrInvalidRate
	}

	premium, err := tx.Premium(id, borrower)
	if err != nil {
		return err
	}

	position, err := tx.Position(id, borrower)
	if err != nil {
		return err
	}

	hasDebt := position.BorrowShares.IsPositive()
	if premium.Rate.IsPositive() && hasDebt {
		if err := p.Accrue(ctx, tx, id, borrower); err != nil {
			return err
		}
	}

	premium.Rate = rate
	if hasDebt {
		return p.Snapshot(ctx, tx, id, borrower)
	}

	return nil
}
