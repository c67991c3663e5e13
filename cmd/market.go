package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"creditmarket/core"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/yiplee/structs"
)

var errMemoryMode = errors.New("command needs the database ledger, memory mode holds no state between runs")

type marketRow struct {
	ID                string `json:"id"`
	LoanToken         string `json:"loan_token"`
	CollateralToken   string `json:"collateral_token"`
	Oracle            string `json:"oracle"`
	RateModel         string `json:"rate_model"`
	LLTV              string `json:"lltv"`
	CreditLine        string `json:"credit_line"`
	TotalSupplyAssets string `json:"total_supply_assets"`
	TotalBorrowAssets string `json:"total_borrow_assets"`
	Fee               string `json:"fee"`
	LastUpdate        int64  `json:"last_update"`
}

func newMarketRow(m *core.Market) marketRow {
	return marketRow{
		ID:                m.ID.Hex(),
		LoanToken:         m.LoanToken.Hex(),
		CollateralToken:   m.CollateralToken.Hex(),
		Oracle:            m.Oracle.Hex(),
		RateModel:         m.CurrentRateModel.Hex(),
		LLTV:              m.LLTV.String(),
		CreditLine:        m.CreditLine.Hex(),
		TotalSupplyAssets: m.TotalSupplyAssets.String(),
		TotalBorrowAssets: m.TotalBorrowAssets.String(),
		Fee:               m.Fee.String(),
		LastUpdate:        m.LastUpdate,
	}
}

func printMarket(cmd *cobra.Command, m *core.Market) {
	fields := structs.Map(newMarketRow(m))
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		cmd.Printf("%-20s %v\n", k, fields[k])
	}
}

func parseMarketID(v string) (core.MarketID, error) {
	if len(v) != 66 {
		return core.MarketID{}, fmt.Errorf("invalid market id %q", v)
	}

	return common.HexToHash(v), nil
}

func parseAddress(v string) (common.Address, error) {
	if !common.IsHexAddress(v) {
		return common.Address{}, fmt.Errorf("invalid address %q", v)
	}

	return common.HexToAddress(v), nil
}

func parseAmount(v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", v)
	}

	return d, nil
}

func openApp() (*app, error) {
	if cfg.App.Memory {
		return nil, errMemoryMode
	}

	return provideApp(), nil
}

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "inspect and create markets",
}

var marketListCmd = &cobra.Command{
	Use:   "list",
	Short: "list markets",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		markets, err := a.store.ListMarkets(cmd.Context())
		if err != nil {
			return err
		}

		for _, m := range markets {
			cmd.Printf("%s %s %s\n", m.ID.Hex(), m.TotalSupplyAssets, m.TotalBorrowAssets)
		}

		return nil
	},
}

var marketShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "show market with interest accrued to now",
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

		m, err := a.ledger.ExpectedMarketBalances(cmd.Context(), id)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			data, _ := json.MarshalIndent(m, "", "  ")
			cmd.Println(string(data))
			return nil
		}

		printMarket(cmd, m)
		return nil
	},
}

var marketCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "create market",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		var params core.MarketParams
		for flag, target := range map[string]*common.Address{
			"loan-token":       &params.LoanToken,
			"collateral-token": &params.CollateralToken,
			"oracle":           &params.Oracle,
			"rate-model":       &params.RateModel,
			"credit-line":      &params.CreditLine,
		} {
			v, _ := flags.GetString(flag)
			if v == "" {
				continue
			}

			addr, err := parseAddress(v)
			if err != nil {
				return err
			}
			*target = addr
		}

		lltv, _ := flags.GetString("lltv")
		v, err := parseAmount(lltv)
		if err != nil {
			return err
		}
		params.LLTV = v

		callerFlag, _ := flags.GetString("caller")
		caller, err := parseAddress(callerFlag)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.ledger.CreateMarket(cmd.Context(), caller, params)
		if err != nil {
			return err
		}

		cmd.Println(id.Hex())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(marketCmd)
	marketCmd.AddCommand(marketListCmd, marketShowCmd, marketCreateCmd)

	marketShowCmd.Flags().Bool("json", false, "print raw json")

	flags := marketCreateCmd.Flags()
	flags.String("loan-token", "", "loan token address")
	flags.String("collateral-token", "", "collateral token address")
	flags.String("oracle", "", "oracle address")
	flags.String("rate-model", "", "rate model address")
	flags.String("lltv", "0", "liquidation loan to value in WAD")
	flags.String("credit-line", "", "credit line address")
	flags.String("caller", common.Address{}.Hex(), "caller address")
}
