package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// HealthService borrower solvency check
type HealthService interface {
	// MaxBorrow collateral value times lltv
	MaxBorrow(ctx context.Context, params MarketParams, position *Position) (decimal.Decimal, error)
	// IsHealthy debt rounded up does not exceed MaxBorrow
	IsHealthy(ctx context.Context, params MarketParams, market *Market, position *Position) (bool, error)
}
