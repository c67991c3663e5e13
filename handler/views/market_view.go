package views

import (
	"creditmarket/core"
	"creditmarket/pkg/shares"

	"github.com/shopspring/decimal"
)

// Market market with the balances expected at request time
type Market struct {
	core.Market
	Utilization decimal.Decimal `json:"utilization"`
	// totals with base interest accrued to now, nothing written
	Expected *core.Market `json:"expected,omitempty"`
}

// MarketView market view
func MarketView(stored, expected *core.Market) *Market {
	return &Market{
		Market:      *stored,
		Utilization: stored.Utilization(),
		Expected:    expected,
	}
}

// Position position with its shares converted at the given market totals
type Position struct {
	core.Position
	SupplyAssets decimal.Decimal `json:"supply_assets"`
	BorrowAssets decimal.Decimal `json:"borrow_assets"`
}

// PositionView supply rounds down and debt rounds up
func PositionView(market *core.Market, position *core.Position) *Position {
	return &Position{
		Position:     *position,
		SupplyAssets: shares.ToAssetsDown(position.SupplyShares, market.TotalSupplyAssets, market.TotalSupplyShares),
		BorrowAssets: shares.ToAssetsUp(position.BorrowShares, market.TotalBorrowAssets, market.TotalBorrowShares),
	}
}

// Operation assets and shares moved by a call
type Operation struct {
	Assets decimal.Decimal `json:"assets"`
	Shares decimal.Decimal `json:"shares"`
}
