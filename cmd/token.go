package cmd

import (
	"strings"
	"time"

	"creditmarket/service/session"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "sign an api access token with an account key",
	RunE: func(cmd *cobra.Command, args []string) error {
		hexKey, _ := cmd.Flags().GetString("key")
		key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
		if err != nil {
			return err
		}

		ttl, _ := cmd.Flags().GetDuration("ttl")
		token, err := session.Sign(key, time.Now().Add(ttl).Unix())
		if err != nil {
			return err
		}

		cmd.Println(crypto.PubkeyToAddress(key.PublicKey).Hex())
		cmd.Println(token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("key", "", "hex private key of the account")
	tokenCmd.Flags().Duration("ttl", time.Hour, "token lifetime")
}
