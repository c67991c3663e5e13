package core

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// RateModel per second borrow rate source in WAD
type RateModel interface {
	// BorrowRate is called once per base accrual and may update the model state
	BorrowRate(ctx context.Context, params MarketParams, market *Market) (decimal.Decimal, error)
	// BorrowRateView same rate without touching the model state
	BorrowRateView(ctx context.Context, params MarketParams, market *Market) (decimal.Decimal, error)
}

// RateModelRegistry resolves rate model addresses of market params
type RateModelRegistry interface {
	RateModel(addr common.Address) (RateModel, error)
}
