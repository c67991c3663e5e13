package cmd

import (
	"github.com/spf13/cobra"
)

var creditCmd = &cobra.Command{
	Use:   "credit <id> <borrower> <credit> <premium rate>",
	Short: "set borrower credit and premium rate, caller must be the market credit line",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseMarketID(args[0])
		if err != nil {
			return err
		}

		borrower, err := parseAddress(args[1])
		if err != nil {
			return err
		}

		credit, err := parseAmount(args[2])
		if err != nil {
			return err
		}

		rate, err := parseAmount(args[3])
		if err != nil {
			return err
		}

		callerFlag, _ := cmd.Flags().GetString("caller")
		caller, err := parseAddress(callerFlag)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if err := a.ledger.SetCreditLine(ctx, caller, id, borrower, credit, rate); err != nil {
			return err
		}

		p, err := a.ledger.Premium(ctx, id, borrower)
		if err != nil {
			return err
		}

		printPremium(cmd, p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(creditCmd)
	creditCmd.Flags().String("caller", "", "credit line address")
}
