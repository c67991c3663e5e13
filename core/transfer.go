package core

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Transfer asset movement between an account and the ledger vault
type Transfer struct {
	TraceID   string          `json:"trace_id"`
	Asset     common.Address  `json:"asset"`
	From      common.Address  `json:"from"`
	To        common.Address  `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// AssetTransfer token transfer primitives, failures are hard errors
type AssetTransfer interface {
	// TransferIn pulls amount of asset from the account into the ledger
	TransferIn(ctx context.Context, asset, from common.Address, amount decimal.Decimal) error
	// TransferOut pushes amount of asset from the ledger to the account
	TransferOut(ctx context.Context, asset, to common.Address, amount decimal.Decimal) error
}
