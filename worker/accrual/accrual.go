package accrual

import (
	"context"
	"time"

	"creditmarket/core"
	"creditmarket/worker"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
)

// DefaultSpec accrue every minute
const DefaultSpec = "@every 1m"

// Worker accrue base interest of every market with a rate model
type Worker struct {
	worker.BaseJob
	store  core.LedgerStore
	ledger core.LedgerService
	clock  func() int64
}

// New new accrual worker
func New(location, spec string, store core.LedgerStore, ledger core.LedgerService) (*Worker, error) {
	if spec == "" {
		spec = DefaultSpec
	}

	w := &Worker{
		store:  store,
		ledger: ledger,
		clock: func() int64 {
			return time.Now().Unix()
		},
	}

	if err := w.Init("accrual", location, spec, w.onWork); err != nil {
		return nil, err
	}

	return w, nil
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx)

	markets, err := w.store.ListMarkets(ctx)
	if err != nil {
		log.WithError(err).Errorln("ListMarkets")
		return err
	}

	now := w.clock()
	var accrued int
	for _, m := range markets {
		if !m.IsCreated() || m.CurrentRateModel == (common.Address{}) || m.LastUpdate >= now {
			continue
		}

		if err := w.ledger.AccrueInterest(ctx, m.Params()); err != nil {
			log.WithError(err).WithField("market", m.ID.Hex()).Errorln("AccrueInterest")
			continue
		}
		accrued++
	}

	log.Debugf("accrued %d of %d markets", accrued, len(markets))
	return nil
}
