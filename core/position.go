package core

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Position account position in a market
type Position struct {
	MarketID     MarketID        `sql:"type:bytea;PRIMARY_KEY" json:"market_id"`
	Account      common.Address  `sql:"type:bytea;PRIMARY_KEY" json:"account"`
	SupplyShares decimal.Decimal `sql:"type:decimal(40,0)" json:"supply_shares"`
	BorrowShares decimal.Decimal `sql:"type:decimal(40,0)" json:"borrow_shares"`
	// set by the credit line authority only
	Collateral decimal.Decimal `sql:"type:decimal(40,0)" json:"collateral"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Equal reports whether two position records hold the same state
func (p *Position) Equal(o *Position) bool {
	return p.MarketID == o.MarketID &&
		p.Account == o.Account &&
		p.SupplyShares.Equal(o.SupplyShares) &&
		p.BorrowShares.Equal(o.BorrowShares) &&
		p.Collateral.Equal(o.Collateral)
}

// BorrowerPremium per borrower default risk premium record
type BorrowerPremium struct {
	MarketID MarketID       `sql:"type:bytea;PRIMARY_KEY" json:"market_id"`
	Borrower common.Address `sql:"type:bytea;PRIMARY_KEY" json:"borrower"`
	// per second WAD rate, zero means no premium tracked
	Rate                      decimal.Decimal `sql:"type:decimal(40,0)" json:"rate"`
	LastAccrualTime           int64           `json:"last_accrual_time"`
	BorrowAssetsAtLastAccrual decimal.Decimal `sql:"type:decimal(40,0)" json:"borrow_assets_at_last_accrual"`
	UpdatedAt                 time.Time       `json:"updated_at"`
}

// Equal reports whether two premium records hold the same state
func (p *BorrowerPremium) Equal(o *BorrowerPremium) bool {
	return p.MarketID == o.MarketID &&
		p.Borrower == o.Borrower &&
		p.Rate.Equal(o.Rate) &&
		p.LastAccrualTime == o.LastAccrualTime &&
		p.BorrowAssetsAtLastAccrual.Equal(o.BorrowAssetsAtLastAccrual)
}

// Authorization authorizer lets authorized withdraw and borrow on its behalf
type Authorization struct {
	Authorizer common.Address `sql:"type:bytea;PRIMARY_KEY" json:"authorizer"`
	Authorized common.Address `sql:"type:bytea;PRIMARY_KEY" json:"authorized"`
	Allowed    bool           `json:"allowed"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// TableName borrower premium table
func (BorrowerPremium) TableName() string {
	return "borrower_premiums"
}

// PositionReader batch position reads, no accrual
type PositionReader interface {
	// FindPositions one record per account in order, missing ones zero
	FindPositions(ctx context.Context, id MarketID, accounts []common.Address) ([]*Position, error)
}
