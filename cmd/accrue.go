package cmd

import (
	"creditmarket/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var accrueCmd = &cobra.Command{
	Use:   "accrue <id>",
	Short: "accrue market interest to now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseMarketID(args[0])
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		params, err := a.ledger.MarketParams(ctx, id)
		if err != nil {
			return err
		}

		if err := a.ledger.AccrueInterest(ctx, *params); err != nil {
			return err
		}

		m, err := a.ledger.Market(ctx, id)
		if err != nil {
			return err
		}

		printMarket(cmd, m)
		return nil
	},
}

var accruePremiumsCmd = &cobra.Command{
	Use:   "premiums <id> <borrower>...",
	Short: "settle borrower premiums",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseMarketID(args[0])
		if err != nil {
			return err
		}

		borrowers := make([]common.Address, 0, len(args)-1)
		for _, v := range args[1:] {
			addr, err := parseAddress(v)
			if err != nil {
				return err
			}
			borrowers = append(borrowers, addr)
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if err := a.ledger.AccrueBorrowerPremiums(ctx, id, borrowers); err != nil {
			return err
		}

		for _, b := range borrowers {
			p, err := a.ledger.Premium(ctx, id, b)
			if err != nil {
				return err
			}

			printPremium(cmd, p)
		}

		return nil
	},
}

func printPremium(cmd *cobra.Command, p *core.BorrowerPremium) {
	cmd.Printf("%s rate %s last accrual %d snapshot %s\n", p.Borrower.Hex(), p.Rate, p.LastAccrualTime, p.BorrowAssetsAtLastAccrual)
}

func init() {
	rootCmd.AddCommand(accrueCmd)
	accrueCmd.AddCommand(accruePremiumsCmd)
}
