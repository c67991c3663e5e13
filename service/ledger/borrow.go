package ledger

import (
	"context"

	"creditmarket/core"
	"creditmarket/pkg/number"
	"creditmarket/pkg/shares"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

func (s *Service) checkMinBorrow(market *core.Market, position *core.Position) error {
	if !s.minBorrow.IsPositive() || position.BorrowShares.IsZero() {
		return nil
	}

	debt := shares.ToAssetsUp(position.BorrowShares, market.TotalBorrowAssets, market.TotalBorrowShares)
	if debt.LessThan(s.minBorrow) {
		return core.ErrBelowMinimumBorrow
	}

	return nil
}

// Borrow borrow against onBehalf's credit line, sent to receiver
func (s *Service) Borrow(ctx context.Context, caller common.Address, params core.MarketParams, assets, amountShares decimal.Decimal, onBehalf, receiver common.Address) (decimal.Decimal, decimal.Decimal, error) {
	const action = core.ActionTypeBorrow

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
			amountShares = shares.ToSharesUp(assets, market.TotalBorrowAssets, market.TotalBorrowShares)
		} else {
			assets = shares.ToAssetsDown(amountShares, market.TotalBorrowAssets, market.TotalBorrowShares)
		}

		position, err := tx.Position(id, onBehalf)
		if err != nil {
			return err
		}

		position.BorrowShares = position.BorrowShares.Add(amountShares)
		market.TotalBorrowShares = market.TotalBorrowShares.Add(amountShares)
		market.TotalBorrowAssets = market.TotalBorrowAssets.Add(assets)

		var healthy bool
		if err := s.callOut(func() (err error) {
			healthy, err = s.health.IsHealthy(ctx, market.Params(), market, position)
			return err
		}); err != nil {
			return err
		}

		if !healthy {
			return core.ErrInsufficientCollateral
		}

		if err := checkLiquidity(market); err != nil {
			return err
		}

		if err := s.checkMinBorrow(market, position); err != nil {
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

// Repay repay debt of onBehalf, pulled from the caller
func (s *Service) Repay(ctx context.Context, caller common.Address, params core.MarketParams, assets, amountShares decimal.Decimal, onBehalf common.Address) (decimal.Decimal, decimal.Decimal, error) {
	const action = core.ActionTypeRepay

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
			amountShares = shares.ToSharesDown(assets, market.TotalBorrowAssets, market.TotalBorrowShares)
		} else {
			assets = shares.ToAssetsUp(amountShares, market.TotalBorrowAssets, market.TotalBorrowShares)
		}

		position, err := tx.Position(id, onBehalf)
		if err != nil {
			return err
		}

		if position.BorrowShares.LessThan(amountShares) {
			return core.ErrInsufficientBalance
		}

		position.BorrowShares = position.BorrowShares.Sub(amountShares)
		market.TotalBorrowShares = market.TotalBorrowShares.Sub(amountShares)
		market.TotalBorrowAssets = number.ZeroFloorSub(market.TotalBorrowAssets, assets)

		if err := s.checkMinBorrow(market, position); err != nil {
			return err
		}

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
