package core

import (
	"context"
	"time"

	"creditmarket/pkg/id"
	"creditmarket/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// MarketID deterministic market identifier, keccak256 of the encoded params
type MarketID = common.Hash

// MarketParams immutable market parameters
type MarketParams struct {
	LoanToken       common.Address  `sql:"type:bytea" json:"loan_token"`
	CollateralToken common.Address  `sql:"type:bytea" json:"collateral_token"`
	Oracle          common.Address  `sql:"type:bytea" json:"oracle"`
	RateModel       common.Address  `sql:"type:bytea" json:"rate_model"`
	LLTV            decimal.Decimal `sql:"type:decimal(40,0)" json:"lltv"`
	CreditLine      common.Address  `sql:"type:bytea" json:"credit_line"`
}

// ID market id of the params
func (p MarketParams) ID() MarketID {
	return id.MarketID(p.LoanToken, p.CollateralToken, p.Oracle, p.RateModel, p.LLTV.BigInt(), p.CreditLine)
}

// Market market aggregate state
type Market struct {
	ID MarketID `sql:"type:bytea;PRIMARY_KEY" json:"id"`
	MarketParams
	TotalSupplyAssets decimal.Decimal `sql:"type:decimal(40,0)" json:"total_supply_assets"`
	TotalSupplyShares decimal.Decimal `sql:"type:decimal(40,0)" json:"total_supply_shares"`
	TotalBorrowAssets decimal.Decimal `sql:"type:decimal(40,0)" json:"total_borrow_assets"`
	TotalBorrowShares decimal.Decimal `sql:"type:decimal(40,0)" json:"total_borrow_shares"`
	// unix seconds of the last base accrual, zero until created
	LastUpdate int64 `json:"last_update"`
	// WAD fraction of interest minted to the fee recipient
	Fee decimal.Decimal `sql:"type:decimal(40,0)" json:"fee"`
	// rate model in use, starts as MarketParams.RateModel
	CurrentRateModel common.Address `sql:"type:bytea" json:"current_rate_model"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// IsCreated market has been created
func (m *Market) IsCreated() bool {
	return m.LastUpdate != 0
}

// Params immutable params of the market
func (m *Market) Params() MarketParams {
	return m.MarketParams
}

// Utilization total borrow assets over total supply assets in WAD
func (m *Market) Utilization() decimal.Decimal {
	if !m.TotalSupplyAssets.IsPositive() {
		return decimal.Zero
	}

	return number.WDivDown(m.TotalBorrowAssets, m.TotalSupplyAssets)
}

// Equal reports whether two market records hold the same state
func (m *Market) Equal(o *Market) bool {
	return m.ID == o.ID &&
		m.MarketParams.Equal(o.MarketParams) &&
		m.TotalSupplyAssets.Equal(o.TotalSupplyAssets) &&
		m.TotalSupplyShares.Equal(o.TotalSupplyShares) &&
		m.TotalBorrowAssets.Equal(o.TotalBorrowAssets) &&
		m.TotalBorrowShares.Equal(o.TotalBorrowShares) &&
		m.LastUpdate == o.LastUpdate &&
		m.Fee.Equal(o.Fee) &&
		m.CurrentRateModel == o.CurrentRateModel
}

// Equal reports whether two param sets are identical
func (p MarketParams) Equal(o MarketParams) bool {
	return p.LoanToken == o.LoanToken &&
		p.CollateralToken == o.CollateralToken &&
		p.Oracle == o.Oracle &&
		p.RateModel == o.RateModel &&
		p.LLTV.Equal(o.LLTV) &&
		p.CreditLine == o.CreditLine
}

// LedgerBatch records written together by LedgerStore.Apply
type LedgerBatch struct {
	Action  ActionType `json:"action"`
	TraceID string     `json:"trace_id"`

	Markets        []*Market          `json:"markets,omitempty"`
	Positions      []*Position        `json:"positions,omitempty"`
	Premiums       []*BorrowerPremium `json:"premiums,omitempty"`
	Authorizations []*Authorization   `json:"authorizations,omitempty"`
}

// IsEmpty batch carries no record
func (b *LedgerBatch) IsEmpty() bool {
	return len(b.Markets) == 0 && len(b.Positions) == 0 && len(b.Premiums) == 0 && len(b.Authorizations) == 0
}

// LedgerStore keyed storage of markets, positions and premiums.
//
// Finders return copies; a missing record is returned as a zero record with its
// keys filled in. No invariant is checked here.
type LedgerStore interface {
	FindMarket(ctx context.Context, id MarketID) (*Market, error)
	ListMarkets(ctx context.Context) ([]*Market, error)
	FindPosition(ctx context.Context, id MarketID, account common.Address) (*Position, error)
	ListPositions(ctx context.Context, id MarketID) ([]*Position, error)
	FindPremium(ctx context.Context, id MarketID, borrower common.Address) (*BorrowerPremium, error)
	ListPremiums(ctx context.Context, id MarketID) ([]*BorrowerPremium, error)
	FindAuthorization(ctx context.Context, authorizer, authorized common.Address) (*Authorization, error)
	Apply(ctx context.Context, batch *LedgerBatch) error
}

// MarketParamsFinder optional LedgerStore extension resolving ids to immutable params
type MarketParamsFinder interface {
	FindMarketParams(ctx context.Context, id MarketID) (*MarketParams, error)
}
