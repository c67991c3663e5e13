package cmd

import (
	"time"

	"creditmarket/core"
	"creditmarket/internal/irm"
	"creditmarket/pkg/checkpoint"
	"creditmarket/pkg/metrics"
	"creditmarket/service/account"
	"creditmarket/service/ledger"
	oracleservice "creditmarket/service/oracle"
	"creditmarket/service/premium"
	"creditmarket/service/protocol"
	"creditmarket/service/session"
	"creditmarket/service/transfer"
	storeledger "creditmarket/store/ledger"
	"creditmarket/store/raw"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

// ledger stack shared by server, worker and the cli commands
type app struct {
	database    *db.DB
	store       core.LedgerStore
	ledger      *ledger.Service
	positions   core.PositionReader
	checkpoints checkpoint.Store
	book        *transfer.Book
	session     core.Session
}

func (a *app) Close() {
	if a.database != nil {
		a.database.Close()
	}
}

func provideApp() *app {
	a := &app{}

	var protocolConfig core.ProtocolConfig
	if cfg.App.Memory {
		a.store = storeledger.Memory()
		a.positions = raw.Store(a.store)
		a.checkpoints = checkpoint.Memory()
		protocolConfig = protocol.Static(cfg.Protocol)
	} else {
		a.database = provideDatabase()
		a.store = storeledger.New(a.database)
		a.positions = raw.New(a.database.View().DB(), "postgres")

		properties := providePropertyStore(a.database)
		a.checkpoints = checkpoint.Property(properties)
		if cfg.Protocol.Persistent {
			protocolConfig = protocol.Property(properties, cfg.Protocol)
		} else {
			protocolConfig = protocol.Static(cfg.Protocol)
		}
	}

	a.store = storeledger.Cache(a.store, cfg.Ledger.ParamsCacheSize)

	rateModels, err := irm.Load(cfg.RateModels)
	if err != nil {
		panic(err)
	}

	oracles, err := oracleservice.Load(cfg.Oracles)
	if err != nil {
		panic(err)
	}

	a.session = session.New(session.Config{
		MaxTTL:   time.Duration(cfg.Session.MaxTTL) * time.Second,
		Capacity: cfg.Session.CacheSize,
	})

	m := metrics.Default()
	a.book = transfer.New(cfg.App.Vault)
	a.ledger = ledger.New(
		a.store,
		protocolConfig,
		rateModels,
		a.book,
		account.New(oracles),
		ledger.WithMetrics(m),
		ledger.WithMinBorrowAssets(cfg.Ledger.MinBorrowAssets),
		ledger.WithPremium(premium.New(premium.Config{
			MaxElapsed:          cfg.Ledger.MaxPremiumElapsed,
			MinPremiumThreshold: cfg.Ledger.MinPremiumThreshold,
			Metrics:             m,
		})),
	)

	return a
}
