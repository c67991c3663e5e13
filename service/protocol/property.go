package protocol

import (
	"context"
	"encoding/json"

	"creditmarket/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/property"
	"github.com/shopspring/decimal"
)

const (
	// KeyOwner protocol owner
	KeyOwner = "protocol_owner"
	// KeyFeeRecipient fee recipient
	KeyFeeRecipient = "protocol_fee_recipient"
	// KeyRateModels json list of enabled rate models
	KeyRateModels = "protocol_rate_models"
	// KeyLltvs json list of enabled lltvs
	KeyLltvs = "protocol_lltvs"
)

type propertyConfig struct {
	propertyStore property.Store
	defaults      core.ProtocolConfig
}

// Property protocol config persisted in the property store, unset keys fall back to defaults
func Property(propertyStore property.Store, defaults core.Protocol) core.ProtocolConfig {
	return &propertyConfig{
		propertyStore: propertyStore,
		defaults:      Static(defaults),
	}
}

func (s *propertyConfig) address(ctx context.Context, key string) (common.Address, bool, error) {
	v, err := s.propertyStore.Get(ctx, key)
	if err != nil {
		return common.Address{}, false, err
	}

	if str := v.String(); common.IsHexAddress(str) {
		return common.HexToAddress(str), true, nil
	}

	return common.Address{}, false, nil
}

func (s *propertyConfig) list(ctx context.Context, key string) ([]string, error) {
	v, err := s.propertyStore.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var items []string
	if str := v.String(); str != "" {
		if err := json.Unmarshal([]byte(str), &items); err != nil {
			return nil, err
		}
	}

	return items, nil
}

func (s *propertyConfig) appendItem(ctx context.Context, key, item string) error {
	items, err := s.list(ctx, key)
	if err != nil {
		return err
	}

	for _, i := range items {
		if i == item {
			return nil
		}
	}

	bs, err := json.Marshal(append(items, item))
	if err != nil {
		return err
	}

	return s.propertyStore.Save(ctx, key, string(bs))
}

func (s *propertyConfig) Owner(ctx context.Context) (common.Address, error) {
	addr, ok, err := s.address(ctx, KeyOwner)
	if err != nil || ok {
		return addr, err
	}

	return s.defaults.Owner(ctx)
}

func (s *propertyConfig) FeeRecipient(ctx context.Context) (common.Address, error) {
	addr, ok, err := s.address(ctx, KeyFeeRecipient)
	if err != nil || ok {
		return addr, err
	}

	return s.defaults.FeeRecipient(ctx)
}

func (s *propertyConfig) IsRateModelEnabled(ctx context.Context, rateModel common.Address) (bool, error) {
	if ok, _ := s.defaults.IsRateModelEnabled(ctx, rateModel); ok {
		return true, nil
	}

	items, err := s.list(ctx, KeyRateModels)
	if err != nil {
		return false, err
	}

	for _, i := range items {
		if common.HexToAddress(i) == rateModel {
			return true, nil
		}
	}

	return false, nil
}

func (s *propertyConfig) IsLltvEnabled(ctx context.Context, lltv decimal.Decimal) (bool, error) {
	if ok, _ := s.defaults.IsLltvEnabled(ctx, lltv); ok {
		return true, nil
	}

	items, err := s.list(ctx, KeyLltvs)
	if err != nil {
		return false, err
	}

	for _, i := range items {
		if d, err := decimal.NewFromString(i); err == nil && d.Equal(lltv) {
			return true, nil
		}
	}

	return false, nil
}

func (s *propertyConfig) SetOwner(ctx context.Context, owner common.Address) error {
	return s.propertyStore.Save(ctx, KeyOwner, owner.Hex())
}

func (s *propertyConfig) SetFeeRecipient(ctx context.Context, recipient common.Address) error {
	return s.propertyStore.Save(ctx, KeyFeeRecipient, recipient.Hex())
}

func (s *propertyConfig) EnableRateModel(ctx context.Context, rateModel common.Address) error {
	return s.appendItem(ctx, KeyRateModels, rateModel.Hex())
}

func (s *propertyConfig) EnableLltv(ctx context.Context, lltv decimal.Decimal) error {
	return s.appendItem(ctx, KeyLltvs, lltv.String())
}
