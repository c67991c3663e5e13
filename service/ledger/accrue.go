package ledger

import (
	"context"

	"creditmarket/core"
	"creditmarket/pkg/compound"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// accrueInterest bring the market totals up to tx.now
func (s *Service) accrueInterest(ctx context.Context, tx *txn, market *core.Market) error {
	if tx.now <= market.LastUpdate {
		return nil
	}

	if market.CurrentRateModel == (common.Address{}) {
		market.LastUpdate = tx.now
		return nil
	}

	model, err := s.rateModels.RateModel(market.CurrentRateModel)
	if err != nil {
		return err
	}

	snapshot := *market
	var rate decimal.Decimal
	if err := s.callOut(func() (err error) {
		rate, err = model.BorrowRate(ctx, market.Params(), &snapshot)
		return err
	}); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("rate model BorrowRate")
		return err
	}

	interest, feeShares := compound.AccrueInterest(market, rate, tx.now)
	if feeShares.IsPositive() {
		position, err := tx.Position(market.ID, tx.feeRecipient)
		if err != nil {
			return err
		}

		position.SupplyShares = position.SupplyShares.Add(feeShares)
	}

	if interest.IsPositive() {
		s.metrics.InterestAccrued(market.ID.Hex())
		logger.FromContext(ctx).WithField("market", market.ID.Hex()).
			Debugf("accrued interest %s, fee shares %s, rate %s", interest, feeShares, rate)
	}

	return nil
}

// AccrueInterest accrue base interest of the market, callable by anyone
func (s *Service) AccrueInterest(ctx context.Context, params core.MarketParams) error {
	return s.exec(ctx, core.ActionTypeAccrueInterest, func(ctx context.Context, tx *txn) error {
		market, err := s.createdMarket(tx, params.ID())
		if err != nil {
			return err
		}

		return s.accrueInterest(ctx, tx, market)
	})
}

// AccrueBorrowerPremium settle the borrower premium, base interest first
func (s *Service) AccrueBorrowerPremium(ctx context.Context, id core.MarketID, borrower common.Address) error {
	return s.AccrueBorrowerPremiums(ctx, id, []common.Address{borrower})
}

// AccrueBorrowerPremiums settle premiums of many borrowers, one failure aborts them all
func (s *Service) AccrueBorrowerPremiums(ctx context.Context, id core.MarketID, borrowers []common.Address) error {
	if len(borrowers) == 0 {
		return core.ErrEmptyBorrowers
	}

	return s.exec(ctx, core.ActionTypeAccruePremium, func(ctx context.Context, tx *txn) error {
		market, err := s.createdMarket(tx, id)
		if err != nil {
			return err
		}

		for _, borrower := range borrowers {
			if borrower == (common.Address{}) {
				return core.ErrZeroAddress
			}
		}

		if err := s.accrueInterest(ctx, tx, market); err != nil {
			return err
		}

		if s.premium == nil {
			return nil
		}

		for _, borrower := range borrowers {
			if err := s.premium.Accrue(ctx, tx, id, borrower); err != nil {
				return err
			}

			if err := s.premium.Snapshot(ctx, tx, id, borrower); err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *Service) createdMarket(tx *txn, id core.MarketID) (*core.Market, error) {
	market, err := tx.Market(id)
	if err != nil {
		return nil, err
	}

	if !market.IsCreated() {
		return nil, core.ErrMarketNotCreated
	}

	return market, nil
}
