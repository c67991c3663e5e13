package core

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Oracle collateral price source, scaled by 1e36
type Oracle interface {
	Price(ctx context.Context) (decimal.Decimal, error)
}

// OracleRegistry resolves oracle addresses of market params
type OracleRegistry interface {
	Oracle(addr common.Address) (Oracle, error)
}
