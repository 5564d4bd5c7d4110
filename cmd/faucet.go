package cmd

import (
	"lending/pkg/number"

	"github.com/spf13/cobra"
)

var faucetCmd = &cobra.Command{
	Use:   "faucet <asset> <holder> <amount>",
	Short: "mint ledger balance for local testing",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		assetID, holder := args[0], args[1]

		a := provideApp()
		defer a.db.Close()

		asset, err := a.registry.GetConfig(ctx, assetID)
		if err != nil {
			cmd.PrintErrln("asset:", err)
			return
		}

		amount, err := number.ParseAmount(args[2], int32(asset.Decimals))
		if err != nil {
			cmd.PrintErrln("amount:", err)
			return
		}

		if err := a.ledger.Faucet(ctx, assetID, holder, amount); err != nil {
			cmd.PrintErrln("faucet:", err)
			return
		}

		balance, err := a.ledger.Balance(ctx, assetID, holder)
		if err != nil {
			cmd.PrintErrln("balance:", err)
			return
		}

		cmd.Println(holder, "balance", number.ToDecimal(balance, int32(asset.Decimals)))
	},
}

func init() {
	rootCmd.AddCommand(faucetCmd)
}
