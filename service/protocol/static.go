package protocol

import (
	"context"
	"sync"

	"creditmarket/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

type staticConfig struct {
	mux          sync.RWMutex
	owner        common.Address
	feeRecipient common.Address
	rateModels   map[common.Address]bool
	lltvs        map[string]bool
}

// Static in memory protocol config seeded from the config file
func Static(cfg core.Protocol) core.ProtocolConfig {
	s := &staticConfig{
		owner:        cfg.Owner,
		feeRecipient: cfg.FeeRecipient,
		rateModels:   map[common.Address]bool{},
		lltvs:        map[string]bool{},
	}

	for _, irm := range cfg.RateModels {
		s.rateModels[irm] = true
	}

	for _, lltv := range cfg.Lltvs {
		s.lltvs[lltv.String()] = true
	}

	return s
}

func (s *staticConfig) Owner(ctx context.Context) (common.Address, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.owner, nil
}

func (s *staticConfig) FeeRecipient(ctx context.Context) (common.Address, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.feeRecipient, nil
}

func (s *staticConfig) IsRateModelEnabled(ctx context.Context, rateModel common.Address) (bool, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.rateModels[rateModel], nil
}

func (s *staticConfig) IsLltvEnabled(ctx context.Context, lltv decimal.Decimal) (bool, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.lltvs[lltv.String()], nil
}

func (s *staticConfig) SetOwner(ctx context.Context, owner common.Address) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.owner = owner
	return nil
}

func (s *staticConfig) SetFeeRecipient(ctx context.Context, recipient common.Address) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.feeRecipient = recipient
	return nil
}

func (s *staticConfig) EnableRateModel(ctx context.Context, rateModel common.Address) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.rateModels[rateModel] = true
	return nil
}

func (s *staticConfig) EnableLltv(ctx context.Context, lltv decimal.Decimal) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.lltvs[lltv.String()] = true
	return nil
}
