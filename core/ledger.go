package core

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// LedgerService credit market operations
type LedgerService interface {
	CreateMarket(ctx context.Context, caller common.Address, params MarketParams) (MarketID, error)

	// Supply exactly one of assets and shares must be nonzero, returns assets and shares moved
	Supply(ctx context.Context, caller common.Address, params MarketParams, assets, shares decimal.Decimal, onBehalf common.Address) (decimal.Decimal, decimal.Decimal, error)
	Withdraw(ctx context.Context, caller common.Address, params MarketParams, assets, shares decimal.Decimal, onBehalf, receiver common.Address) (decimal.Decimal, decimal.Decimal, error)
	Borrow(ctx context.Context, caller common.Address, params MarketParams, assets, shares decimal.Decimal, onBehalf, receiver common.Address) (decimal.Decimal, decimal.Decimal, error)
	Repay(ctx context.Context, caller common.Address, params MarketParams, assets, shares decimal.Decimal, onBehalf common.Address) (decimal.Decimal, decimal.Decimal, error)

	AccrueInterest(ctx context.Context, params MarketParams) error
	AccrueBorrowerPremium(ctx context.Context, id MarketID, borrower common.Address) error
	AccrueBorrowerPremiums(ctx context.Context, id MarketID, borrowers []common.Address) error
	SetCreditLine(ctx context.Context, caller common.Address, id MarketID, borrower common.Address, credit, premiumRate decimal.Decimal) error

	SetFee(ctx context.Context, caller common.Address, params MarketParams, fee decimal.Decimal) error
	SetRateModel(ctx context.Context, caller common.Address, id MarketID, rateModel common.Address) error
	SetFeeRecipient(ctx context.Context, caller, recipient common.Address) error
	EnableRateModel(ctx context.Context, caller, rateModel common.Address) error
	EnableLltv(ctx context.Context, caller common.Address, lltv decimal.Decimal) error
	SetAuthorization(ctx context.Context, caller, authorized common.Address, allowed bool) error

	Market(ctx context.Context, id MarketID) (*Market, error)
	Position(ctx context.Context, id MarketID, account common.Address) (*Position, error)
	Premium(ctx context.Context, id MarketID, borrower common.Address) (*BorrowerPremium, error)
	ExpectedMarketBalances(ctx context.Context, id MarketID) (*Market, error)
}
