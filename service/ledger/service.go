package ledger

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"creditmarket/core"
	"creditmarket/pkg/id"
	"creditmarket/pkg/metrics"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

// MaxFee max fee, 25%
var MaxFee = decimal.New(25, 16)

// DefaultReentrancyWait how long a waiting call tolerates the same
// collaborator call in progress before treating it as a callback
const DefaultReentrancyWait = 3 * time.Second

type reentrancyKey struct{}

// Service credit market ledger
//
// Calls are serialized. Each one works on a private copy of the records it
// touches, writes them back in a single batch and only then moves assets.
type Service struct {
	store      core.LedgerStore
	protocol   core.ProtocolConfig
	rateModels core.RateModelRegistry
	transfer   core.AssetTransfer
	health     core.HealthService

	premium   core.PremiumAccrual
	minBorrow decimal.Decimal
	clock     func() int64
	metrics   *metrics.Ledger

	// sem holds one token while a call runs
	sem  chan struct{}
	wait time.Duration
	// external id of the collaborator call in progress, 0 when none
	external atomic.Int64
	calls    int64
}

// Option service option
type Option func(s *Service)

// WithPremium plug the borrower premium strategy into the borrow and repay hooks
func WithPremium(premium core.PremiumAccrual) Option {
	return func(s *Service) {
		s.premium = premium
	}
}

// WithMinBorrowAssets borrowers may not keep a nonzero debt below min
func WithMinBorrowAssets(min decimal.Decimal) Option {
	return func(s *Service) {
		s.minBorrow = min
	}
}

// WithClock replace the unix seconds source
func WithClock(clock func() int64) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithReentrancyWait set how long a call waits on a single rate model,
// oracle or transfer call before failing with ErrReentrancy
func WithReentrancyWait(d time.Duration) Option {
	return func(s *Service) {
		s.wait = d
	}
}

// WithMetrics count calls
func WithMetrics(m *metrics.Ledger) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New new ledger service
func New(
	store core.LedgerStore,
	protocol core.ProtocolConfig,
	rateModels core.RateModelRegistry,
	transfer core.AssetTransfer,
	health core.HealthService,
	opts ...Option,
) *Service {
	s := &Service{
		store:      store,
		protocol:   protocol,
		rateModels: rateModels,
		transfer:   transfer,
		health:     health,
		minBorrow:  decimal.Zero,
		sem:        make(chan struct{}, 1),
		wait:       DefaultReentrancyWait,
		clock: func() int64 {
			return time.Now().Unix()
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

var _ core.LedgerService = (*Service)(nil)

func (s *Service) exec(ctx context.Context, action core.ActionType, fn func(ctx context.Context, tx *txn) error) error {
	if ctx.Value(reentrancyKey{}) != nil {
		return core.ErrReentrancy
	}
	ctx = context.WithValue(ctx, reentrancyKey{}, action)

	if err := s.lock(ctx); err != nil {
		return err
	}
	defer s.unlock()

	log := logger.FromContext(ctx).WithField("action", action.String())
	ctx = logger.WithContext(ctx, log)

	err := s.run(ctx, action, fn)
	if err != nil {
		log.WithError(err).Debugln("ledger call aborted")
	}

	s.metrics.Observe(action.String(), errorCategory(err), err)
	return err
}

// lock acquire the call token. A caller that finds the token held across
// one unfinished collaborator call for the whole wait is that collaborator
// calling back in under a fresh context.
func (s *Service) lock(ctx context.Context) error {
	for {
		select {
		case s.sem <- struct{}{}:
			return nil
		default:
		}

		call := s.external.Load()
		timer := time.NewTimer(s.wait)
		select {
		case s.sem <- struct{}{}:
			timer.Stop()
			return nil
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			if call != 0 && s.external.Load() == call {
				return core.ErrReentrancy
			}
		}
	}
}

func (s *Service) unlock() {
	<-s.sem
}

// callOut run fn, a call into a rate model, oracle or asset transfer,
// while holding the call token
func (s *Service) callOut(fn func() error) error {
	s.calls++
	s.external.Store(s.calls)
	defer s.external.Store(0)

	return fn()
}

func (s *Service) run(ctx context.Context, action core.ActionType, fn func(ctx context.Context, tx *txn) error) error {
	feeRecipient, err := s.protocol.FeeRecipient(ctx)
	if err != nil {
		return err
	}

	tx := newTxn(ctx, s.store, s.clock(), feeRecipient)
	if err := fn(ctx, tx); err != nil {
		return err
	}

	return s.commit(ctx, action, tx)
}

func (s *Service) commit(ctx context.Context, action core.ActionType, tx *txn) error {
	log := logger.FromContext(ctx)

	after, before := tx.batches()
	if err := validateBatch(after); err != nil {
		return err
	}

	after.Action, before.Action = action, action
	after.TraceID = id.GenTraceID()
	before.TraceID = uuid.Modify(after.TraceID, "restore")

	if !after.IsEmpty() {
		if err := s.store.Apply(ctx, after); err != nil {
			log.WithError(err).Errorln("store.Apply")
			return err
		}
	}

	m := tx.movement
	if m == nil || !m.amount.IsPositive() {
		return nil
	}

	err := s.callOut(func() error {
		if m.in {
			return s.transfer.TransferIn(ctx, m.asset, m.account, m.amount)
		}
		return s.transfer.TransferOut(ctx, m.asset, m.account, m.amount)
	})

	if err != nil {
		log.WithError(err).Errorln("transfer failed, restoring records")
		if !before.IsEmpty() {
			if rerr := s.store.Apply(ctx, before); rerr != nil {
				log.WithError(rerr).Errorln("store.Apply before images")
			}
		}
		return err
	}

	return nil
}

func errorCategory(err error) string {
	if err == nil {
		return ""
	}

	var code core.ErrorCode
	if errors.As(err, &code) {
		return code.Category()
	}

	return "internal"
}
