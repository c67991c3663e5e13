package ledger

import (
	"context"
	"fmt"

	"creditmarket/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache caches the immutable params of created markets
func Cache(store core.LedgerStore, size int) core.LedgerStore {
	if size <= 0 {
		size = 1024
	}

	return &cacheLedgerStore{
		LedgerStore: store,
		cache:       gcache.New(size).LRU().Build(),
		sf:          &singleflight.Group{},
	}
}

type cacheLedgerStore struct {
	core.LedgerStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheLedgerStore) FindMarketParams(ctx context.Context, id core.MarketID) (*core.MarketParams, error) {
	key := s.paramsKey(id)
	if v, err := s.cache.Get(key); err == nil {
		if params, ok := v.(core.MarketParams); ok {
			return &params, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		market, err := s.LedgerStore.FindMarket(ctx, id)
		if err != nil {
			return nil, err
		}

		if !market.IsCreated() {
			return nil, core.ErrMarketNotCreated
		}

		params := market.Params()
		s.cache.Set(key, params)
		return params, nil
	})
	if err != nil {
		return nil, err
	}

	params := v.(core.MarketParams)
	return &params, nil
}

func (s *cacheLedgerStore) Apply(ctx context.Context, batch *core.LedgerBatch) error {
	if err := s.LedgerStore.Apply(ctx, batch); err != nil {
		return err
	}

	for _, m := range batch.Markets {
		if m.IsCreated() {
			s.cache.Set(s.paramsKey(m.ID), m.Params())
		}
	}

	return nil
}

func (s *cacheLedgerStore) paramsKey(id core.MarketID) string {
	return fmt.Sprintf("market:params:%s", id.Hex())
}
