package core

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// LedgerTx working set of one ledger call.
//
// Records returned are owned by the call; changes are written when the call
// succeeds and dropped otherwise. They must not be retained after it returns.
type LedgerTx interface {
	// Now unix seconds of the call
	Now() int64
	Market(id MarketID) (*Market, error)
	Position(id MarketID, account common.Address) (*Position, error)
	Premium(id MarketID, borrower common.Address) (*BorrowerPremium, error)
	FeeRecipient() common.Address
}

// PremiumAccrual borrower premium strategy plugged into the ledger
type PremiumAccrual interface {
	// Before runs after base accrual and before the position changes
	Before(ctx context.Context, tx LedgerTx, action ActionType, id MarketID, account common.Address) error
	// After runs once the position and market totals are final
	After(ctx context.Context, tx LedgerTx, action ActionType, id MarketID, account common.Address) error
	// Accrue settles the premium owed since the last accrual
	Accrue(ctx context.Context, tx LedgerTx, id MarketID, borrower common.Address) error
	// Snapshot records the borrower debt as the new accrual baseline
	Snapshot(ctx context.Context, tx LedgerTx, id MarketID, borrower common.Address) error
	// SetRate settles under the old rate then switches to rate
	SetRate(ctx context.Context, tx LedgerTx, id MarketID, borrower common.Address, rate decimal.Decimal) error
}
