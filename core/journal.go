package core

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// JournalEntry applied ledger batch, kept for audit and replay
type JournalEntry struct {
	ID        int64          `sql:"PRIMARY_KEY" json:"id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	TraceID   string         `sql:"size:36" json:"trace_id"`
	Action    string         `sql:"size:32" json:"action"`
	Version   int64          `sql:"not null" json:"version"`
	Data      types.JSONText `sql:"type:TEXT" json:"data"`
}

// TableName ledger journal table
func (JournalEntry) TableName() string {
	return "ledger_journals"
}

// JournalReader reads the batch journal in id order
type JournalReader interface {
	Journal(ctx context.Context, after int64, limit int) ([]*JournalEntry, error)
}
