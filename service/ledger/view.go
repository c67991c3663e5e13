package ledger

import (
	"context"

	"creditmarket/core"
	"creditmarket/pkg/compound"
	"creditmarket/pkg/shares"
	"creditmarket/pkg/slots"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Market stored market record, no accrual
func (s *Service) Market(ctx context.Context, id core.MarketID) (*core.Market, error) {
	return s.store.FindMarket(ctx, id)
}

// Position stored position record, no accrual
func (s *Service) Position(ctx context.Context, id core.MarketID, account common.Address) (*core.Position, error) {
	return s.store.FindPosition(ctx, id, account)
}

// Premium stored premium record, no accrual
func (s *Service) Premium(ctx context.Context, id core.MarketID, borrower common.Address) (*core.BorrowerPremium, error) {
	return s.store.FindPremium(ctx, id, borrower)
}

// MarketParams params of a created market
func (s *Service) MarketParams(ctx context.Context, id core.MarketID) (*core.MarketParams, error) {
	if finder, ok := s.store.(core.MarketParamsFinder); ok {
		return finder.FindMarketParams(ctx, id)
	}

	market, err := s.store.FindMarket(ctx, id)
	if err != nil {
		return nil, err
	}

	if !market.IsCreated() {
		return nil, core.ErrMarketNotCreated
	}

	params := market.Params()
	return &params, nil
}

// ExpectedMarketBalances market totals as if accrued now, the rate model state is left untouched
func (s *Service) ExpectedMarketBalances(ctx context.Context, id core.MarketID) (*core.Market, error) {
	market, err := s.store.FindMarket(ctx, id)
	if err != nil {
		return nil, err
	}

	if !market.IsCreated() {
		return nil, core.ErrMarketNotCreated
	}

	now := s.clock()
	if now <= market.LastUpdate {
		return market, nil
	}

	if market.CurrentRateModel == (common.Address{}) {
		market.LastUpdate = now
		return market, nil
	}

	model, err := s.rateModels.RateModel(market.CurrentRateModel)
	if err != nil {
		return nil, err
	}

	rate, err := model.BorrowRateView(ctx, market.Params(), market)
	if err != nil {
		return nil, err
	}

	compound.AccrueInterest(market, rate, now)
	return market, nil
}

// ExpectedBorrowAssets borrower debt with base interest accrued to now, premium excluded
func (s *Service) ExpectedBorrowAssets(ctx context.Context, id core.MarketID, borrower common.Address) (decimal.Decimal, error) {
	market, err := s.ExpectedMarketBalances(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	position, err := s.store.FindPosition(ctx, id, borrower)
	if err != nil {
		return decimal.Zero, err
	}

	return shares.ToAssetsUp(position.BorrowShares, market.TotalBorrowAssets, market.TotalBorrowShares), nil
}

// ExtSloads raw storage words of the stored records, no accrual
func (s *Service) ExtSloads(ctx context.Context, keys []slots.Key) ([]common.Hash, error) {
	words := make([]common.Hash, 0, len(keys))
	for _, k := range keys {
		var record []common.Hash

		switch k.Kind {
		case slots.KindMarket:
			m, err := s.store.FindMarket(ctx, k.MarketID)
			if err != nil {
				return nil, err
			}
			record = slots.Market(m)
		case slots.KindPosition:
			p, err := s.store.FindPosition(ctx, k.MarketID, k.Account)
			if err != nil {
				return nil, err
			}
			record = slots.Position(p)
		case slots.KindPremium:
			p, err := s.store.FindPremium(ctx, k.MarketID, k.Account)
			if err != nil {
				return nil, err
			}
			record = slots.Premium(p)
		}

		words = append(words, slots.Pick(record, k.Index))
	}

	return words, nil
}
