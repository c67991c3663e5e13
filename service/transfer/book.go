package transfer

import (
	"context"
	"errors"
	"sync"
	"time"

	"creditmarket/core"
	"creditmarket/pkg/id"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// ErrInsufficientFunds source balance below the transfer amount
var ErrInsufficientFunds = errors.New("transfer: insufficient funds")

type balanceKey struct {
	asset   common.Address
	account common.Address
}

// Book in process token balances, the ledger's pooled assets sit on the vault account
type Book struct {
	mux       sync.Mutex
	vault     common.Address
	balances  map[balanceKey]decimal.Decimal
	transfers []*core.Transfer
}

// New new book
func New(vault common.Address) *Book {
	return &Book{
		vault:    vault,
		balances: map[balanceKey]decimal.Decimal{},
	}
}

// Vault vault account
func (b *Book) Vault() common.Address {
	return b.vault
}

// Mint credit amount of asset to account
func (b *Book) Mint(asset, account common.Address, amount decimal.Decimal) {
	b.mux.Lock()
	defer b.mux.Unlock()

	k := balanceKey{asset, account}
	b.balances[k] = b.balances[k].Add(amount)
}

// Balance balance of account
func (b *Book) Balance(asset, account common.Address) decimal.Decimal {
	b.mux.Lock()
	defer b.mux.Unlock()

	return b.balances[balanceKey{asset, account}]
}

// Transfers transfers made so far
func (b *Book) Transfers() []*core.Transfer {
	b.mux.Lock()
	defer b.mux.Unlock()

	return append([]*core.Transfer(nil), b.transfers...)
}

func (b *Book) move(ctx context.Context, asset, from, to common.Address, amount decimal.Decimal) error {
	b.mux.Lock()
	defer b.mux.Unlock()

	src := balanceKey{asset, from}
	if b.balances[src].LessThan(amount) {
		logger.FromContext(ctx).WithField("asset", asset.Hex()).
			WithField("from", from.Hex()).
			Errorln("insufficient funds", amount, b.balances[src])
		return ErrInsufficientFunds
	}

	dst := balanceKey{asset, to}
	b.balances[src] = b.balances[src].Sub(amount)
	b.balances[dst] = b.balances[dst].Add(amount)
	b.transfers = append(b.transfers, &core.Transfer{
		TraceID:   id.GenTraceID(),
		Asset:     asset,
		From:      from,
		To:        to,
		Amount:    amount,
		CreatedAt: time.Now(),
	})

	return nil
}

// TransferIn pull amount from the account into the vault
func (b *Book) TransferIn(ctx context.Context, asset, from common.Address, amount decimal.Decimal) error {
	return b.move(ctx, asset, from, b.vault, amount)
}

// TransferOut push amount from the vault to the account
func (b *Book) TransferOut(ctx context.Context, asset, to common.Address, amount decimal.Decimal) error {
	return b.move(ctx, asset, b.vault, to, amount)
}
