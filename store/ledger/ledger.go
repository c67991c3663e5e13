package ledger

import (
	"context"

	"creditmarket/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type ledgerStore struct {
	db *db.DB
}

// New new gorm backed ledger store
func New(db *db.DB) core.LedgerStore {
	return &ledgerStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update()
		if err := tx.AutoMigrate(core.Market{}, core.Position{}, core.BorrowerPremium{}, core.Authorization{}).Error; err != nil {
			return err
		}

		if err := tx.Model(core.Position{}).AddIndex("idx_positions_market", "market_id").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *ledgerStore) FindMarket(ctx context.Context, id core.MarketID) (*core.Market, error) {
	var market core.Market
	if err := s.db.View().Where("id = ?", id).First(&market).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.Market{ID: id}, nil
		}
		return nil, err
	}

	return &market, nil
}

func (s *ledgerStore) ListMarkets(ctx context.Context) ([]*core.Market, error) {
	var markets []*core.Market
	if err := s.db.View().Order("last_update").Find(&markets).Error; err != nil {
		return nil, err
	}

	return markets, nil
}

func (s *ledgerStore) FindPosition(ctx context.Context, id core.MarketID, account common.Address) (*core.Position, error) {
	var position core.Position
	if err := s.db.View().Where("market_id = ? AND account = ?", id, account).First(&position).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.Position{MarketID: id, Account: account}, nil
		}
		return nil, err
	}

	return &position, nil
}

func (s *ledgerStore) ListPositions(ctx context.Context, id core.MarketID) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("market_id = ?", id).Order("account").Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *ledgerStore) FindPremium(ctx context.Context, id core.MarketID, borrower common.Address) (*core.BorrowerPremium, error) {
	var premium core.BorrowerPremium
	if err := s.db.View().Where("market_id = ? AND borrower = ?", id, borrower).First(&premium).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.BorrowerPremium{MarketID: id, Borrower: borrower}, nil
		}
		return nil, err
	}

	return &premium, nil
}

func (s *ledgerStore) ListPremiums(ctx context.Context, id core.MarketID) ([]*core.BorrowerPremium, error) {
	var premiums []*core.BorrowerPremium
	if err := s.db.View().Where("market_id = ?", id).Order("borrower").Find(&premiums).Error; err != nil {
		return nil, err
	}

	return premiums, nil
}

func (s *ledgerStore) FindAuthorization(ctx context.Context, authorizer, authorized common.Address) (*core.Authorization, error) {
	var auth core.Authorization
	if err := s.db.View().Where("authorizer = ? AND authorized = ?", authorizer, authorized).First(&auth).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.Authorization{Authorizer: authorizer, Authorized: authorized}, nil
		}
		return nil, err
	}

	return &auth, nil
}

// Apply writes the batch and its journal entry in one db transaction
func (s *ledgerStore) Apply(ctx context.Context, batch *core.LedgerBatch) error {
	return s.db.Tx(func(tx *db.DB) error {
		if batch.TraceID != "" {
			if err := saveJournal(tx, batch); err != nil {
				return err
			}
		}

		for _, m := range batch.Markets {
			if err := tx.Update().Save(m).Error; err != nil {
				return err
			}
		}

		for _, p := range batch.Positions {
			if err := tx.Update().Save(p).Error; err != nil {
				return err
			}
		}

		for _, p := range batch.Premiums {
			if err := tx.Update().Save(p).Error; err != nil {
				return err
			}
		}

		for _, a := range batch.Authorizations {
			if err := tx.Update().Save(a).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
