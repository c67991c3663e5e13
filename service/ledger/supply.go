package ledger

import (
	"context"

	"creditmarket/core"
	"creditmarket/pkg/compound"
	"creditmarket/pkg/number"
	"creditmarket/pkg/shares"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// validateAmounts exactly one of assets and shares is a positive integer, the other zero
func validateAmounts(assets, shares decimal.Decimal) error {
	if !number.IsInteger(assets) || !number.IsInteger(shares) || assets.IsNegative() || shares.IsNegative() {
		return core.ErrInvalidAmount
	}

	return compound.Require(assets.IsZero() != shares.IsZero(), core.ErrInconsistentInput)
}

func (s *Service) isAuthorized(tx *txn, caller, onBehalf common.Address) (bool, error) {
	if caller == onBehalf {
		return true, nil
	}

	auth, err := tx.Authorization(onBehalf, caller)
	if err != nil {
		return false, err
	}

	return auth.Allowed, nil
}

func (s *Service) before(ctx context.Context, tx *txn, action core.ActionType, id core.MarketID, account common.Address) error {
	if s.premium == nil {
		return nil
	}

	return s.premium.Before(ctx, tx, action, id, account)
}

func (s *Service) after(ctx context.Context, tx *txn, action core.ActionType, id core.MarketID, account common.Address) error {
	if s.premium == nil {
		return nil
	}

	return s.premium.After(ctx, tx, action, id, account)
}

func checkLiquidity(market *core.Market) error {
	return compound.Require(market.TotalBorrowAssets.LessThanOrEqual(market.TotalSupplyAssets), core.ErrInsufficientLiquidity)
}

// Supply supply assets on behalf of an account, pulled from the caller
func (s *Service) Supply(ctx context.Context, caller common.Address, params core.MarketParams, assets, amountShares decimal.Decimal, onBehalf common.Address) (decimal.Decimal, decimal.Decimal, error) {
	const action = core.ActionTypeSupply

	err := s.exec(ctx, action, func(ctx context.Context, tx *txn) error {
		id := params.ID()
		market, err := s.createdMarket(tx, id)
		if err != nil {
			return err
		}

		if err := validateAmounts(assets, amountShares); err != nil {
			return err
		}

		if onBehalf == (common.Address{}) {
			return core.ErrZeroAddress
		}

		if err := s.accrueInterest(ctx, tx, market); err != nil {
			return err
		}

		if err := s.before(ctx, tx, action, id, onBehalf); err != nil {
			return err
		}

		if assets.IsPositive() {
			amountShares = shares.ToSharesDown(assets, market.TotalSupplyAssets, market.TotalSupplyShares)
		} else {
			assets = shares.ToAssetsUp(amountShares, market.TotalSupplyAssets, market.TotalSupplyShares)
		}

		position, err := tx.Position(id, onBehalf)
		if err != nil {
			return err
		}

		position.SupplyShares = position.SupplyShares.Add(amountShares)
		market.TotalSupplyShares = market.TotalSupplyShares.Add(amountShares)
		market.TotalSupplyAssets = market.TotalSupplyAssets.Add(assets)

		if err := s.after(ctx, tx, action, id, onBehalf); err != nil {
			return err
		}

		tx.transferIn(params.LoanToken, caller, assets)
		return nil
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return assets, amountShares, nil
}

// Withdraw withdraw supplied assets of onBehalf to receiver
func (s *Service) Withdraw(ctx context.Context, caller common.Address, params core.MarketParams, assets, amountShares decimal.Decimal, onBehalf, receiver common.Address) (decimal.Decimal, decimal.Decimal, error) {
	const action = core.ActionTypeWithdraw

	err := s.exec(ctx, action, func(ctx context.Context, tx *txn) error {
		id := params.ID()
		market, err := s.createdMarket(tx, id)
		if err != nil {
			return err
		}

		if err := validateAmounts(assets, amountShares); err != nil {
			return err
		}

		if onBehalf == (common.Address{}) || receiver == (common.Address{}) {
			return core.ErrZeroAddress
		}

		if ok, err := s.isAuthorized(tx, caller, onBehalf); err != nil {
			return err
		} else if !ok {
			return core.ErrUnauthorized
		}

		if err := s.accrueInterest(ctx, tx, market); err != nil {
			return err
		}

		if err := s.before(ctx, tx, action, id, onBehalf); err != nil {
			return err
		}

		if assets.IsPositive() {
			amountShares = shares.ToSharesUp(assets, market.TotalSupplyAssets, market.TotalSupplyShares)
		} else {
			assets = shares.ToAssetsDown(amountShares, market.TotalSupplyAssets, market.TotalSupplyShares)
		}

		position, err := tx.Position(id, onBehalf)
		if err != nil {
			return err
		}

		if position.SupplyShares.LessThan(amountShares) {
			return core.ErrInsufficientBalance
		}

		position.SupplyShares = position.SupplyShares.Sub(amountShares)
		market.TotalSupplyShares = market.TotalSupplyShares.Sub(amountShares)
		market.TotalSupplyAssets = market.TotalSupplyAssets.Sub(assets)

		if err := checkLiquidity(market); err != nil {
			return err
		}

		if err := s.after(ctx, tx, action, id, onBehalf); err != nil {
			return err
		}

		tx.transferOut(params.LoanToken, receiver, assets)
		return nil
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return assets, amountShares, nil
}
