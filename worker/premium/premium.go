package premium

import (
	"context"

	"creditmarket/core"
	"creditmarket/pkg/checkpoint"
	"creditmarket/worker"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/logger"
)

const (
	// DefaultSpec settle premiums every ten minutes
	DefaultSpec = "@every 10m"
	// DefaultBatch borrowers settled per market per round
	DefaultBatch = 50
)

// Worker settle borrower premiums in batches, resuming where the last round stopped
type Worker struct {
	worker.BaseJob
	store       core.LedgerStore
	ledger      core.LedgerService
	checkpoints checkpoint.Store
	batch       int
}

// New new premium worker
func New(location, spec string, batch int, store core.LedgerStore, ledger core.LedgerService, checkpoints checkpoint.Store) (*Worker, error) {
	if spec == "" {
		spec = DefaultSpec
	}

	if batch <= 0 {
		batch = DefaultBatch
	}

	w := &Worker{
		store:       store,
		ledger:      ledger,
		checkpoints: checkpoints,
		batch:       batch,
	}

	if err := w.Init("premium", location, spec, w.onWork); err != nil {
		return nil, err
	}

	return w, nil
}

func checkpointKey(id core.MarketID) string {
	return "premium_cursor_" + id.Hex()
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx)

	markets, err := w.store.ListMarkets(ctx)
	if err != nil {
		log.WithError(err).Errorln("ListMarkets")
		return err
	}

	for _, m := range markets {
		if !m.IsCreated() {
			continue
		}

		if err := w.settle(ctx, m.ID); err != nil {
			log.WithError(err).WithField("market", m.ID.Hex()).Errorln("settle premiums")
		}
	}

	return nil
}

func (w *Worker) settle(ctx context.Context, id core.MarketID) error {
	premiums, err := w.store.ListPremiums(ctx, id)
	if err != nil {
		return err
	}

	var borrowers []common.Address
	for _, p := range premiums {
		if p.Rate.IsPositive() && p.LastAccrualTime > 0 {
			borrowers = append(borrowers, p.Borrower)
		}
	}

	if len(borrowers) == 0 {
		return nil
	}

	cursor, err := w.checkpoints.Read(ctx, checkpointKey(id))
	if err != nil {
		return err
	}

	start := int(cursor) % len(borrowers)
	end := start + w.batch
	if end > len(borrowers) {
		end = len(borrowers)
	}

	log := logger.FromContext(ctx).WithField("market", id.Hex())

	// one failing borrower must not pin the cursor on this slice
	if err := w.ledger.AccrueBorrowerPremiums(ctx, id, borrowers[start:end]); err != nil {
		log.WithError(err).Warnln("AccrueBorrowerPremiums, settling one by one")
		for _, b := range borrowers[start:end] {
			if err := w.ledger.AccrueBorrowerPremium(ctx, id, b); err != nil {
				log.WithError(err).WithField("borrower", b.Hex()).Errorln("AccrueBorrowerPremium")
			}
		}
	}

	next := end
	if next >= len(borrowers) {
		next = 0
	}

	log.Debugf("settled premiums of borrowers %d to %d", start, end)
	return w.checkpoints.Save(ctx, checkpointKey(id), int64(next))
}
