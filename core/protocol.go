package core

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// ProtocolConfig protocol configuration store
type ProtocolConfig interface {
	Owner(ctx context.Context) (common.Address, error)
	FeeRecipient(ctx context.Context) (common.Address, error)
	IsRateModelEnabled(ctx context.Context, rateModel common.Address) (bool, error)
	IsLltvEnabled(ctx context.Context, lltv decimal.Decimal) (bool, error)

	SetOwner(ctx context.Context, owner common.Address) error
	SetFeeRecipient(ctx context.Context, recipient common.Address) error
	EnableRateModel(ctx context.Context, rateModel common.Address) error
	EnableLltv(ctx context.Context, lltv decimal.Decimal) error
}
