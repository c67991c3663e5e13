package ledger

import (
	"context"

	"creditmarket/core"
	"creditmarket/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

func (s *Service) requireOwner(ctx context.Context, caller common.Address) error {
	owner, err := s.protocol.Owner(ctx)
	if err != nil {
		return err
	}

	if caller != owner {
		return core.ErrNotOwner
	}

	return nil
}

// CreateMarket create a market with governance approved rate model and lltv
func (s *Service) CreateMarket(ctx context.Context, caller common.Address, params core.MarketParams) (core.MarketID, error) {
	id := params.ID()

	err := s.exec(ctx, core.ActionTypeCreateMarket, func(ctx context.Context, tx *txn) error {
		if params.CreditLine == (common.Address{}) {
			return core.ErrZeroAddress
		}

		if ok, err := s.protocol.IsRateModelEnabled(ctx, params.RateModel); err != nil {
			return err
		} else if !ok {
			return core.ErrRateModelNotEnabled
		}

		if ok, err := s.protocol.IsLltvEnabled(ctx, params.LLTV); err != nil {
			return err
		} else if !ok {
			return core.ErrLltvNotEnabled
		}

		market, err := tx.Market(id)
		if err != nil {
			return err
		}

		if market.IsCreated() {
			return core.ErrMarketAlreadyCreated
		}

		market.MarketParams = params
		market.LastUpdate = tx.now
		market.CurrentRateModel = params.RateModel

		// first call sets up any per market state of the rate model
		if params.RateModel != (common.Address{}) {
			model, err := s.rateModels.RateModel(params.RateModel)
			if err != nil {
				return err
			}

			snapshot := *market
			if err := s.callOut(func() error {
				_, err := model.BorrowRate(ctx, params, &snapshot)
				return err
			}); err != nil {
				return err
			}
		}

		logger.FromContext(ctx).WithField("market", id.Hex()).Infoln("market created by", caller.Hex())
		return nil
	})

	return id, err
}

// SetFee set the fee of the market, interest so far accrues under the old fee
func (s *Service) SetFee(ctx context.Context, caller common.Address, params core.MarketParams, fee decimal.Decimal) error {
	return s.exec(ctx, core.ActionTypeSetFee, func(ctx context.Context, tx *txn) error {
		if err := s.requireOwner(ctx, caller); err != nil {
			return err
		}

		market, err := s.createdMarket(tx, params.ID())
		if err != nil {
			return err
		}

		if fee.IsNegative() || !number.IsInteger(fee) {
			return core.ErrInvalidAmount
		}

		if fee.Equal(market.Fee) {
			return core.ErrAlreadySet
		}

		if fee.GreaterThan(MaxFee) {
			return core.ErrMaxFeeExceeded
		}

		if err := s.accrueInterest(ctx, tx, market); err != nil {
			return err
		}

		market.Fee = fee
		return nil
	})
}

// SetRateModel switch the market to another enabled rate model, interest so far accrues under the old one
func (s *Service) SetRateModel(ctx context.Context, caller common.Address, id core.MarketID, rateModel common.Address) error {
	return s.exec(ctx, core.ActionTypeSetRateModel, func(ctx context.Context, tx *txn) error {
		if err := s.requireOwner(ctx, caller); err != nil {
			return err
		}

		market, err := s.createdMarket(tx, id)
		if err != nil {
			return err
		}

		if market.CurrentRateModel == rateModel {
			return core.ErrAlreadySet
		}

		if ok, err := s.protocol.IsRateModelEnabled(ctx, rateModel); err != nil {
			return err
		} else if !ok {
			return core.ErrRateModelNotEnabled
		}

		if rateModel != (common.Address{}) {
			if _, err := s.rateModels.RateModel(rateModel); err != nil {
				return err
			}
		}

		if err := s.accrueInterest(ctx, tx, market); err != nil {
			return err
		}

		market.CurrentRateModel = rateModel
		return nil
	})
}

// SetFeeRecipient owner only
func (s *Service) SetFeeRecipient(ctx context.Context, caller, recipient common.Address) error {
	return s.exec(ctx, core.ActionTypeGovernance, func(ctx context.Context, tx *txn) error {
		if err := s.requireOwner(ctx, caller); err != nil {
			return err
		}

		if recipient == tx.feeRecipient {
			return core.ErrAlreadySet
		}

		return s.protocol.SetFeeRecipient(ctx, recipient)
	})
}

// EnableRateModel owner only
func (s *Service) EnableRateModel(ctx context.Context, caller, rateModel common.Address) error {
	return s.exec(ctx, core.ActionTypeGovernance, func(ctx context.Context, tx *txn) error {
		if err := s.requireOwner(ctx, caller); err != nil {
			return err
		}

		if ok, err := s.protocol.IsRateModelEnabled(ctx, rateModel); err != nil {
			return err
		} else if ok {
			return core.ErrAlreadySet
		}

		return s.protocol.EnableRateModel(ctx, rateModel)
	})
}

// EnableLltv owner only, lltv must be below 100%
func (s *Service) EnableLltv(ctx context.Context, caller common.Address, lltv decimal.Decimal) error {
	return s.exec(ctx, core.ActionTypeGovernance, func(ctx context.Context, tx *txn) error {
		if err := s.requireOwner(ctx, caller); err != nil {
			return err
		}

		if lltv.IsNegative() || !number.IsInteger(lltv) || lltv.GreaterThanOrEqual(number.WAD) {
			return core.ErrInvalidAmount
		}

		if ok, err := s.protocol.IsLltvEnabled(ctx, lltv); err != nil {
			return err
		} else if ok {
			return core.ErrAlreadySet
		}

		return s.protocol.EnableLltv(ctx, lltv)
	})
}

// SetAuthorization let authorized withdraw and borrow on the caller's behalf
func (s *Service) SetAuthorization(ctx context.Context, caller, authorized common.Address, allowed bool) error {
	return s.exec(ctx, core.ActionTypeSetAuthorization, func(ctx context.Context, tx *txn) error {
		if caller == (common.Address{}) || authorized == (common.Address{}) {
			return core.ErrZeroAddress
		}

		auth, err := tx.Authorization(caller, authorized)
		if err != nil {
			return err
		}

		if auth.Allowed == allowed {
			return core.ErrAlreadySet
		}

		auth.Allowed = allowed
		return nil
	})
}
