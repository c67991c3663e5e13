package ledger

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"creditmarket/core"

	"github.com/ethereum/go-ethereum/common"
)

type positionKey struct {
	market  core.MarketID
	account common.Address
}

type authKey struct {
	authorizer common.Address
	authorized common.Address
}

// memoryStore arena of records, each family indexed by its key
type memoryStore struct {
	mux sync.RWMutex

	markets     []core.Market
	marketIndex map[core.MarketID]int

	positions     []core.Position
	positionIndex map[positionKey]int

	premiums     []core.BorrowerPremium
	premiumIndex map[positionKey]int

	auths     []core.Authorization
	authIndex map[authKey]int
}

// Memory in process ledger store
func Memory() core.LedgerStore {
	return &memoryStore{
		marketIndex:   map[core.MarketID]int{},
		positionIndex: map[positionKey]int{},
		premiumIndex:  map[positionKey]int{},
		authIndex:     map[authKey]int{},
	}
}

func (s *memoryStore) FindMarket(ctx context.Context, id core.MarketID) (*core.Market, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	if i, ok := s.marketIndex[id]; ok {
		m := s.markets[i]
		return &m, nil
	}

	return &core.Market{ID: id}, nil
}

func (s *memoryStore) ListMarkets(ctx context.Context) ([]*core.Market, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	markets := make([]*core.Market, 0, len(s.markets))
	for i := range s.markets {
		m := s.markets[i]
		markets = append(markets, &m)
	}

	return markets, nil
}

func (s *memoryStore) FindPosition(ctx context.Context, id core.MarketID, account common.Address) (*core.Position, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	if i, ok := s.positionIndex[positionKey{id, account}]; ok {
		p := s.positions[i]
		return &p, nil
	}

	return &core.Position{MarketID: id, Account: account}, nil
}

func (s *memoryStore) ListPositions(ctx context.Context, id core.MarketID) ([]*core.Position, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	var positions []*core.Position
	for i := range s.positions {
		if s.positions[i].MarketID == id {
			p := s.positions[i]
			positions = append(positions, &p)
		}
	}

	sort.Slice(positions, func(i, j int) bool {
		return bytes.Compare(positions[i].Account.Bytes(), positions[j].Account.Bytes()) < 0
	})

	return positions, nil
}

func (s *memoryStore) FindPremium(ctx context.Context, id core.MarketID, borrower common.Address) (*core.BorrowerPremium, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	if i, ok := s.premiumIndex[positionKey{id, borrower}]; ok {
		p := s.premiums[i]
		return &p, nil
	}

	return &core.BorrowerPremium{MarketID: id, Borrower: borrower}, nil
}

func (s *memoryStore) ListPremiums(ctx context.Context, id core.MarketID) ([]*core.BorrowerPremium, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	var premiums []*core.BorrowerPremium
	for i := range s.premiums {
		if s.premiums[i].MarketID == id {
			p := s.premiums[i]
			premiums = append(premiums, &p)
		}
	}

	sort.Slice(premiums, func(i, j int) bool {
		return bytes.Compare(premiums[i].Borrower.Bytes(), premiums[j].Borrower.Bytes()) < 0
	})

	return premiums, nil
}

func (s *memoryStore) FindAuthorization(ctx context.Context, authorizer, authorized common.Address) (*core.Authorization, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	if i, ok := s.authIndex[authKey{authorizer, authorized}]; ok {
		a := s.auths[i]
		return &a, nil
	}

	return &core.Authorization{Authorizer: authorizer, Authorized: authorized}, nil
}

func (s *memoryStore) Apply(ctx context.Context, batch *core.LedgerBatch) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	now := time.Now()

	for _, m := range batch.Markets {
		r := *m
		r.UpdatedAt = now
		if i, ok := s.marketIndex[r.ID]; ok {
			s.markets[i] = r
			continue
		}
		s.marketIndex[r.ID] = len(s.markets)
		s.markets = append(s.markets, r)
	}

	for _, p := range batch.Positions {
		r := *p
		r.UpdatedAt = now
		k := positionKey{r.MarketID, r.Account}
		if i, ok := s.positionIndex[k]; ok {
			s.positions[i] = r
			continue
		}
		s.positionIndex[k] = len(s.positions)
		s.positions = append(s.positions, r)
	}

	for _, p := range batch.Premiums {
		r := *p
		r.UpdatedAt = now
		k := positionKey{r.MarketID, r.Borrower}
		if i, ok := s.premiumIndex[k]; ok {
			s.premiums[i] = r
			continue
		}
		s.premiumIndex[k] = len(s.premiums)
		s.premiums = append(s.premiums, r)
	}

	for _, a := range batch.Authorizations {
		r := *a
		r.UpdatedAt = now
		k := authKey{r.Authorizer, r.Authorized}
		if i, ok := s.authIndex[k]; ok {
			s.auths[i] = r
			continue
		}
		s.authIndex[k] = len(s.auths)
		s.auths = append(s.auths, r)
	}

	return nil
}
