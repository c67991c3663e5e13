package oracle

import (
	"context"
	"sync"

	"creditmarket/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// PriceScale oracle prices are scaled by 1e36
var PriceScale = decimal.New(1, 36)

// Static oracle returning a settable price
type Static struct {
	mux   sync.RWMutex
	price decimal.Decimal
	// counts Price calls
	calls int
}

// NewStatic new static oracle
func NewStatic(price decimal.Decimal) *Static {
	return &Static{price: price}
}

func (s *Static) Price(ctx context.Context) (decimal.Decimal, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	s.calls++
	return s.price, nil
}

// SetPrice replace the price
func (s *Static) SetPrice(price decimal.Decimal) {
	s.mux.Lock()
	defer s.mux.Unlock()

	s.price = price
}

// Calls number of Price calls so far
func (s *Static) Calls() int {
	s.mux.RLock()
	defer s.mux.RUnlock()

	return s.calls
}

// Registry oracles by address
type Registry struct {
	mux     sync.RWMutex
	oracles map[common.Address]core.Oracle
}

// NewRegistry new registry
func NewRegistry() *Registry {
	return &Registry{oracles: map[common.Address]core.Oracle{}}
}

// Register bind oracle to addr
func (r *Registry) Register(addr common.Address, o core.Oracle) {
	r.mux.Lock()
	defer r.mux.Unlock()

	r.oracles[addr] = o
}

// Oracle oracle at addr
func (r *Registry) Oracle(addr common.Address) (core.Oracle, error) {
	r.mux.RLock()
	defer r.mux.RUnlock()

	o, ok := r.oracles[addr]
	if !ok {
		return nil, core.ErrOracleNotFound
	}

	return o, nil
}
