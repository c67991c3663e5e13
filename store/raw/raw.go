package raw

import (
	"context"
	"database/sql"
	"strings"

	"creditmarket/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	"github.com/lib/pq"
)

// Reader reads ledger rows straight from the tables, no accrual and no cache
type Reader struct {
	db *sqlx.DB
}

// New wrap the ledger database, columns are mapped through the json tags
func New(db *sql.DB, driverName string) *Reader {
	x := sqlx.NewDb(db, driverName)
	x.Mapper = reflectx.NewMapperFunc("json", strings.ToLower)
	return &Reader{db: x}
}

// FindPositions positions of accounts with one query
func (r *Reader) FindPositions(ctx context.Context, id core.MarketID, accounts []common.Address) ([]*core.Position, error) {
	if len(accounts) == 0 {
		return nil, nil
	}

	keys := make([][]byte, len(accounts))
	for i, a := range accounts {
		keys[i] = a.Bytes()
	}

	var rows []*core.Position
	query := r.db.Rebind("SELECT * FROM positions WHERE market_id = ? AND account = ANY(?)")
	if err := r.db.SelectContext(ctx, &rows, query, id, pq.Array(keys)); err != nil {
		return nil, err
	}

	found := make(map[common.Address]*core.Position, len(rows))
	for _, p := range rows {
		found[p.Account] = p
	}

	return fill(id, accounts, found), nil
}

// Journal journal entries after id, oldest first
func (r *Reader) Journal(ctx context.Context, after int64, limit int) ([]*core.JournalEntry, error) {
	var entries []*core.JournalEntry
	query := r.db.Rebind("SELECT * FROM ledger_journals WHERE id > ? ORDER BY id LIMIT ?")
	if err := r.db.SelectContext(ctx, &entries, query, after, limit); err != nil {
		return nil, err
	}

	return entries, nil
}

func fill(id core.MarketID, accounts []common.Address, found map[common.Address]*core.Position) []*core.Position {
	positions := make([]*core.Position, len(accounts))
	for i, a := range accounts {
		if p, ok := found[a]; ok {
			positions[i] = p
			continue
		}
		positions[i] = &core.Position{MarketID: id, Account: a}
	}

	return positions
}

type storeReader struct {
	store core.LedgerStore
}

// Store position reader over any ledger store, one lookup per account
func Store(store core.LedgerStore) core.PositionReader {
	return &storeReader{store: store}
}

func (s *storeReader) FindPositions(ctx context.Context, id core.MarketID, accounts []common.Address) ([]*core.Position, error) {
	found := make(map[common.Address]*core.Position, len(accounts))
	for _, a := range accounts {
		if _, ok := found[a]; ok {
			continue
		}

		p, err := s.store.FindPosition(ctx, id, a)
		if err != nil {
			return nil, err
		}
		found[a] = p
	}

	return fill(id, accounts, found), nil
}
