package irm

import (
	"fmt"
	"strings"
	"sync"

	"creditmarket/core"

	"github.com/ethereum/go-ethereum/common"
)

// Registry rate models by address
type Registry struct {
	mux    sync.RWMutex
	models map[common.Address]core.RateModel
}

// NewRegistry new registry
func NewRegistry() *Registry {
	return &Registry{models: map[common.Address]core.RateModel{}}
}

// Register bind model to addr
func (r *Registry) Register(addr common.Address, model core.RateModel) {
	r.mux.Lock()
	defer r.mux.Unlock()

	r.models[addr] = model
}

// RateModel model at addr
func (r *Registry) RateModel(addr common.Address) (core.RateModel, error) {
	r.mux.RLock()
	defer r.mux.RUnlock()

	m, ok := r.models[addr]
	if !ok {
		return nil, core.ErrRateModelNotFound
	}

	return m, nil
}

// Load registry from rate model configs
func Load(cfgs []core.RateModelConfig) (*Registry, error) {
	r := NewRegistry()
	for _, cfg := range cfgs {
		switch strings.ToLower(cfg.Kind) {
		case "fixed", "":
			r.Register(cfg.Address, FromAPR(cfg.BaseRate))
		case "jump":
			r.Register(cfg.Address, NewJumpRate(cfg.BaseRate, cfg.Multiplier, cfg.JumpMultiplier, cfg.Kink))
		default:
			return nil, fmt.Errorf("rate model %s: unknown kind %q", cfg.Address.Hex(), cfg.Kind)
		}
	}

	return r, nil
}
