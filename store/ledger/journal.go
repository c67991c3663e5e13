package ledger

import (
	"encoding/json"

	"creditmarket/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.JournalEntry{})

		if err := tx.AutoMigrate(core.JournalEntry{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_ledger_journals_trace", "trace_id").Error; err != nil {
			return err
		}

		return nil
	})
}

func saveJournal(tx *db.DB, batch *core.LedgerBatch) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return err
	}

	entry := &core.JournalEntry{
		TraceID: batch.TraceID,
		Action:  batch.Action.String(),
		Version: 1,
		Data:    data,
	}

	// a re-applied trace bumps its version
	update := tx.Update().Model(entry).
		Where("trace_id = ?", entry.TraceID).
		Updates(map[string]interface{}{
			"data":    entry.Data,
			"version": gorm.Expr("version + 1"),
		})

	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return tx.Update().Create(entry).Error
	}

	return nil
}
