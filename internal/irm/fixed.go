package irm

import (
	"context"

	"creditmarket/core"

	"github.com/shopspring/decimal"
)

// Fixed constant per second rate
type Fixed struct {
	Rate decimal.Decimal
}

// FromAPR fixed model paying apr a year, apr in WAD
func FromAPR(apr decimal.Decimal) *Fixed {
	return &Fixed{Rate: PerSecond(apr)}
}

func (f *Fixed) BorrowRate(ctx context.Context, params core.MarketParams, market *core.Market) (decimal.Decimal, error) {
	return f.Rate, nil
}

func (f *Fixed) BorrowRateView(ctx context.Context, params core.MarketParams, market *core.Market) (decimal.Decimal, error) {
	return f.Rate, nil
}
