package cmd

import (
	"encoding/json"

	"lending/config"
	"lending/core"
	"lending/handler/views"

	"github.com/spf13/cobra"
)

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "manage registered assets",
}

var addAssetCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"a"},
	Short:   "register an asset and open its pool",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		var opt core.AssetOption
		opt.AssetID, _ = cmd.Flags().GetString("asset")
		opt.Symbol, _ = cmd.Flags().GetString("symbol")
		opt.Name, _ = cmd.Flags().GetString("name")
		opt.Decimals, _ = cmd.Flags().GetUint8("decimals")
		opt.CollateralFactor, _ = cmd.Flags().GetString("collateral-factor")
		opt.BorrowFactor, _ = cmd.Flags().GetString("borrow-factor")
		opt.LiquidationBonus, _ = cmd.Flags().GetString("liquidation-bonus")
		opt.PriceFeed, _ = cmd.Flags().GetString("feed")

		caller, _ := cmd.Flags().GetString("caller")
		if caller == "" && len(cfg.Admins) > 0 {
			caller = cfg.Admins[0]
		}

		asset, err := config.AssetConfig(opt)
		if err != nil {
			cmd.PrintErrln("invalid asset:", err)
			return
		}

		a := provideApp()
		defer a.db.Close()

		tx, err := a.engine.AddAsset(ctx, caller, asset)
		if err != nil {
			cmd.PrintErrln("add asset:", err)
			return
		}

		cmd.Println("asset added, trace", tx.TraceID)
	},
}

var listAssetCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "list pools with their assets",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		a := provideApp()
		defer a.db.Close()

		pools, err := a.engine.Pools(ctx)
		if err != nil {
			cmd.PrintErrln("list pools:", err)
			return
		}

		for _, pool := range pools {
			asset, err := a.registry.GetConfig(ctx, pool.AssetID)
			if err != nil {
				cmd.PrintErrln("asset", pool.AssetID, err)
				continue
			}

			data, _ := json.Marshal(views.PoolView(pool, asset))
			cmd.Println(string(data))
		}
	},
}

func init() {
	rootCmd.AddCommand(assetCmd)
	assetCmd.AddCommand(addAssetCmd, listAssetCmd)

	flags := addAssetCmd.Flags()
	flags.String("asset", "", "asset id")
	flags.String("symbol", "", "symbol")
	flags.String("name", "", "name")
	flags.Uint8("decimals", 18, "decimals")
	flags.String("collateral-factor", "", "collateral factor, e.g. 0.75")
	flags.String("borrow-factor", "", "borrow factor, e.g. 0.9")
	flags.String("liquidation-bonus", "", "liquidation bonus, e.g. 0.05")
	flags.String("feed", "", "price feed key, the asset id by default")
	flags.String("caller", "", "admin running the operation, the first admin by default")
}
