package ledger

import (
	"context"

	"creditmarket/core"
	"creditmarket/pkg/number"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

type positionKey struct {
	market  core.MarketID
	account common.Address
}

type authKey struct {
	authorizer common.Address
	authorized common.Address
}

// movement the single asset transfer of a call
type movement struct {
	in      bool
	asset   common.Address
	account common.Address
	amount  decimal.Decimal
}

// txn working set of one call, implements core.LedgerTx
type txn struct {
	ctx          context.Context
	store        core.LedgerStore
	now          int64
	feeRecipient common.Address

	markets       map[core.MarketID]*core.Market
	marketsBefore map[core.MarketID]core.Market
	marketOrder   []core.MarketID

	positions       map[positionKey]*core.Position
	positionsBefore map[positionKey]core.Position
	positionOrder   []positionKey

	premiums       map[positionKey]*core.BorrowerPremium
	premiumsBefore map[positionKey]core.BorrowerPremium
	premiumOrder   []positionKey

	auths       map[authKey]*core.Authorization
	authsBefore map[authKey]core.Authorization
	authOrder   []authKey

	movement *movement
}

func newTxn(ctx context.Context, store core.LedgerStore, now int64, feeRecipient common.Address) *txn {
	return &txn{
		ctx:             ctx,
		store:           store,
		now:             now,
		feeRecipient:    feeRecipient,
		markets:         map[core.MarketID]*core.Market{},
		marketsBefore:   map[core.MarketID]core.Market{},
		positions:       map[positionKey]*core.Position{},
		positionsBefore: map[positionKey]core.Position{},
		premiums:        map[positionKey]*core.BorrowerPremium{},
		premiumsBefore:  map[positionKey]core.BorrowerPremium{},
		auths:           map[authKey]*core.Authorization{},
		authsBefore:     map[authKey]core.Authorization{},
	}
}

func (t *txn) Now() int64 {
	return t.now
}

func (t *txn) FeeRecipient() common.Address {
	return t.feeRecipient
}

func (t *txn) Market(id core.MarketID) (*core.Market, error) {
	if m, ok := t.markets[id]; ok {
		return m, nil
	}

	m, err := t.store.FindMarket(t.ctx, id)
	if err != nil {
		return nil, err
	}

	t.markets[id] = m
	t.marketsBefore[id] = *m
	t.marketOrder = append(t.marketOrder, id)
	return m, nil
}

func (t *txn) Position(id core.MarketID, account common.Address) (*core.Position, error) {
	k := positionKey{id, account}
	if p, ok := t.positions[k]; ok {
		return p, nil
	}

	p, err := t.store.FindPosition(t.ctx, id, account)
	if err != nil {
		return nil, err
	}

	t.positions[k] = p
	t.positionsBefore[k] = *p
	t.positionOrder = append(t.positionOrder, k)
	return p, nil
}

func (t *txn) Premium(id core.MarketID, borrower common.Address) (*core.BorrowerPremium, error) {
	k := positionKey{id, borrower}
	if p, ok := t.premiums[k]; ok {
		return p, nil
	}

	p, err := t.store.FindPremium(t.ctx, id, borrower)
	if err != nil {
		return nil, err
	}

	t.premiums[k] = p
	t.premiumsBefore[k] = *p
	t.premiumOrder = append(t.premiumOrder, k)
	return p, nil
}

func (t *txn) Authorization(authorizer, authorized common.Address) (*core.Authorization, error) {
	k := authKey{authorizer, authorized}
	if a, ok := t.auths[k]; ok {
		return a, nil
	}

	a, err := t.store.FindAuthorization(t.ctx, authorizer, authorized)
	if err != nil {
		return nil, err
	}

	t.auths[k] = a
	t.authsBefore[k] = *a
	t.authOrder = append(t.authOrder, k)
	return a, nil
}

func (t *txn) transferIn(asset, from common.Address, amount decimal.Decimal) {
	t.movement = &movement{in: true, asset: asset, account: from, amount: amount}
}

func (t *txn) transferOut(asset, to common.Address, amount decimal.Decimal) {
	t.movement = &movement{asset: asset, account: to, amount: amount}
}

// batches changed records and their before images
func (t *txn) batches() (after, before *core.LedgerBatch) {
	after, before = &core.LedgerBatch{}, &core.LedgerBatch{}

	for _, id := range t.marketOrder {
		m, b := t.markets[id], t.marketsBefore[id]
		if !m.Equal(&b) {
			after.Markets = append(after.Markets, m)
			before.Markets = append(before.Markets, &b)
		}
	}

	for _, k := range t.positionOrder {
		p, b := t.positions[k], t.positionsBefore[k]
		if !p.Equal(&b) {
			after.Positions = append(after.Positions, p)
			before.Positions = append(before.Positions, &b)
		}
	}

	for _, k := range t.premiumOrder {
		p, b := t.premiums[k], t.premiumsBefore[k]
		if !p.Equal(&b) {
			after.Premiums = append(after.Premiums, p)
			before.Premiums = append(before.Premiums, &b)
		}
	}

	for _, k := range t.authOrder {
		a, b := t.auths[k], t.authsBefore[k]
		if a.Allowed != b.Allowed {
			after.Authorizations = append(after.Authorizations, a)
			before.Authorizations = append(before.Authorizations, &b)
		}
	}

	return after, before
}

// validateBatch every stored amount must fit in uint128
func validateBatch(batch *core.LedgerBatch) error {
	var values []decimal.Decimal

	for _, m := range batch.Markets {
		values = append(values, m.TotalSupplyAssets, m.TotalSupplyShares, m.TotalBorrowAssets, m.TotalBorrowShares, m.Fee)
	}

	for _, p := range batch.Positions {
		values = append(values, p.SupplyShares, p.BorrowShares, p.Collateral)
	}

	for _, p := range batch.Premiums {
		values = append(values, p.Rate, p.BorrowAssetsAtLastAccrual)
	}

	for _, v := range values {
		if !number.IsUint128(v) {
			return core.ErrOverflow
		}
	}

	return nil
}
