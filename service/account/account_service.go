package account

import (
	"context"

	"creditmarket/core"
	"creditmarket/pkg/number"
	"creditmarket/pkg/shares"

	"github.com/shopspring/decimal"
)

// OraclePriceScale scale of oracle prices
var OraclePriceScale = decimal.New(1, 36)

type accountService struct {
	oracles core.OracleRegistry
}

// New new health service
func New(oracles core.OracleRegistry) core.HealthService {
	return &accountService{oracles: oracles}
}

func (s *accountService) MaxBorrow(ctx context.Context, params core.MarketParams, position *core.Position) (decimal.Decimal, error) {
	if !position.Collateral.IsPositive() {
		return decimal.Zero, nil
	}

	oracle, err := s.oracles.Oracle(params.Oracle)
	if err != nil {
		return decimal.Zero, err
	}

	price, err := oracle.Price(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	if price.IsNegative() {
		return decimal.Zero, core.ErrInvalidPrice
	}

	value := number.MulDivDown(position.Collateral, price, OraclePriceScale)
	return number.WMulDown(value, params.LLTV), nil
}

func (s *accountService) IsHealthy(ctx context.Context, params core.MarketParams, market *core.Market, position *core.Position) (bool, error) {
	if position.BorrowShares.IsZero() {
		return true, nil
	}

	maxBorrow, err := s.MaxBorrow(ctx, params, position)
	if err != nil {
		return false, err
	}

	borrowed := shares.ToAssetsUp(position.BorrowShares, market.TotalBorrowAssets, market.TotalBorrowShares)
	return borrowed.LessThanOrEqual(maxBorrow), nil
}
