package irm

import (
	"context"
	"sync"

	"creditmarket/core"
	"creditmarket/pkg/number"

	"github.com/shopspring/decimal"
)

// SecondsPerYear seconds per year
var SecondsPerYear = decimal.NewFromInt(365 * 24 * 3600)

// PerSecond annual WAD rate to per second WAD rate
func PerSecond(annual decimal.Decimal) decimal.Decimal {
	return number.DivDown(annual, SecondsPerYear)
}

// GetBorrowRatePerSecond kinked borrow rate
//
// below the kink: utilization * multiplier + base
// above the kink: (utilization - kink) * jump multiplier + kink * multiplier + base
func GetBorrowRatePerSecond(utilization, baseRate, multiplier, jumpMultiplier, kink decimal.Decimal) decimal.Decimal {
	base := PerSecond(baseRate)
	mul := PerSecond(multiplier)

	if kink.IsZero() || utilization.LessThanOrEqual(kink) {
		return number.WMulDown(utilization, mul).Add(base)
	}

	normalRate := number.WMulDown(kink, mul).Add(base)
	excess := utilization.Sub(kink)
	return number.WMulDown(excess, PerSecond(jumpMultiplier)).Add(normalRate)
}

// JumpRate kinked utilization curve, annual parameters in WAD
type JumpRate struct {
	BaseRate       decimal.Decimal
	Multiplier     decimal.Decimal
	JumpMultiplier decimal.Decimal
	Kink           decimal.Decimal

	mux sync.Mutex
	// rate handed out at the last accrual of each market
	lastRates map[core.MarketID]decimal.Decimal
}

// NewJumpRate new jump rate model
func NewJumpRate(baseRate, multiplier, jumpMultiplier, kink decimal.Decimal) *JumpRate {
	return &JumpRate{
		BaseRate:       baseRate,
		Multiplier:     multiplier,
		JumpMultiplier: jumpMultiplier,
		Kink:           kink,
		lastRates:      map[core.MarketID]decimal.Decimal{},
	}
}

func (j *JumpRate) rate(market *core.Market) decimal.Decimal {
	return GetBorrowRatePerSecond(market.Utilization(), j.BaseRate, j.Multiplier, j.JumpMultiplier, j.Kink)
}

// BorrowRate current rate, remembered as the market's last rate
func (j *JumpRate) BorrowRate(ctx context.Context, params core.MarketParams, market *core.Market) (decimal.Decimal, error) {
	r := j.rate(market)

	j.mux.Lock()
	j.lastRates[market.ID] = r
	j.mux.Unlock()

	return r, nil
}

// BorrowRateView current rate
func (j *JumpRate) BorrowRateView(ctx context.Context, params core.MarketParams, market *core.Market) (decimal.Decimal, error) {
	return j.rate(market), nil
}

// LastRate rate returned by the last BorrowRate call for the market
func (j *JumpRate) LastRate(id core.MarketID) (decimal.Decimal, bool) {
	j.mux.Lock()
	defer j.mux.Unlock()

	r, ok := j.lastRates[id]
	return r, ok
}
