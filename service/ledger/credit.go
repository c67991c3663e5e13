package ledger

import (
	"context"

	"creditmarket/core"
	"creditmarket/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// SetCreditLine set the borrower's credit and premium rate, credit line authority only
func (s *Service) SetCreditLine(ctx context.Context, caller common.Address, id core.MarketID, borrower common.Address, credit, premiumRate decimal.Decimal) error {
	return s.exec(ctx, core.ActionTypeSetCreditLine, func(ctx context.Context, tx *txn) error {
		market, err := s.createdMarket(tx, id)
		if err != nil {
			return err
		}

		if caller != market.CreditLine {
			return core.ErrNotCreditLine
		}

		if borrower == (common.Address{}) {
			return core.ErrZeroAddress
		}

		if credit.IsNegative() || !number.IsInteger(credit) {
			return core.ErrInvalidAmount
		}

		if premiumRate.IsNegative() || !number.IsInteger(premiumRate) {
			return core.ErrInvalidRate
		}

		if s.premium == nil && premiumRate.IsPositive() {
			return core.ErrPremiumDisabled
		}

		if err := s.accrueInterest(ctx, tx, market); err != nil {
			return err
		}

		position, err := tx.Position(id, borrower)
		if err != nil {
			return err
		}

		position.Collateral = credit

		if s.premium != nil {
			if err := s.premium.SetRate(ctx, tx, id, borrower, premiumRate); err != nil {
				return err
			}
		}

		logger.FromContext(ctx).WithField("market", id.Hex()).
			WithField("borrower", borrower.Hex()).
			Infof("credit line set to %s at premium %s", credit, premiumRate)
		return nil
	})
}
