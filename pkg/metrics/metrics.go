package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Ledger ledger instruments
type Ledger struct {
	operations *prometheus.CounterVec
	failures   *prometheus.CounterVec
	interest   *prometheus.CounterVec
	premium    *prometheus.CounterVec
}

var (
	ledgerOnce     sync.Once
	ledgerRegistry *Ledger
)

// Default process wide ledger instruments, registered once
func Default() *Ledger {
	ledgerOnce.Do(func() {
		ledgerRegistry = &Ledger{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "creditmarket",
				Subsystem: "ledger",
				Name:      "operations_total",
				Help:      "Ledger calls completed, by action.",
			}, []string{"action"}),
			failures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "creditmarket",
				Subsystem: "ledger",
				Name:      "failures_total",
				Help:      "Ledger calls aborted, by action and error category.",
			}, []string{"action", "category"}),
			interest: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "creditmarket",
				Subsystem: "ledger",
				Name:      "interest_accruals_total",
				Help:      "Base accruals that added interest, by market.",
			}, []string{"market"}),
			premium: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "creditmarket",
				Subsystem: "ledger",
				Name:      "premium_accruals_total",
				Help:      "Borrower premium settlements that minted debt, by market.",
			}, []string{"market"}),
		}
		prometheus.MustRegister(
			ledgerRegistry.operations,
			ledgerRegistry.failures,
			ledgerRegistry.interest,
			ledgerRegistry.premium,
		)
	})
	return ledgerRegistry
}

// Observe count one finished call
func (l *Ledger) Observe(action, category string, err error) {
	if l == nil {
		return
	}

	if err != nil {
		l.failures.WithLabelValues(action, category).Inc()
		return
	}

	l.operations.WithLabelValues(action).Inc()
}

// InterestAccrued count a base accrual with nonzero interest
func (l *Ledger) InterestAccrued(market string) {
	if l == nil {
		return
	}

	l.interest.WithLabelValues(market).Inc()
}

// PremiumAccrued count a premium settlement that minted debt
func (l *Ledger) PremiumAccrued(market string) {
	if l == nil {
		return
	}

	l.premium.WithLabelValues(market).Inc()
}
