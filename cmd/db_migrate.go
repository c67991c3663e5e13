package cmd

import (
	storeledger "creditmarket/store/ledger"

	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Aliases: []string{"setdb"},
	Short:   "create or update the ledger tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.App.Memory {
			return errMemoryMode
		}

		database := provideDatabase()
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			return err
		}

		// the tables must be readable by the ledger store right away
		markets, err := storeledger.New(database).ListMarkets(cmd.Context())
		if err != nil {
			return err
		}

		cmd.Printf("ledger tables ready, %d markets\n", len(markets))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
