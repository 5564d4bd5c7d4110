package cmd

import (
	"context"
	"errors"

	"lending/config"
	"lending/core"
	"lending/service/account"
	"lending/service/block"
	"lending/service/engine"
	"lending/service/oracle"
	"lending/service/registry"
	"lending/service/token"
	"lending/store/asset"
	"lending/store/balance"
	"lending/store/pause"
	"lending/store/state"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	"github.com/yiplee/structs"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideEngineStore(db *db.DB) core.IEngineStore {
	return state.New(db)
}

func provideAssetStore(db *db.DB) core.IAssetStore {
	return asset.Cache(asset.New(db))
}

func provideBalanceStore(db *db.DB) core.IBalanceStore {
	return balance.New(db)
}

func providePauseStore(db *db.DB) core.IPauseStore {
	return pause.New(providePropertyStore(db))
}

// ------------------service------------------------------------

func provideBlockService() core.IBlockService {
	return block.New(provideConfig())
}

func provideRegistry(assets core.IAssetStore) core.IAssetRegistry {
	return registry.New(assets)
}

func providePriceFeed() core.IPriceFeed {
	if endpoint := cfg.PriceOracle.EndPoint; endpoint != "" {
		feed := oracle.NewHTTPFeed(endpoint, config.OracleTimeout(&cfg))
		return oracle.Cache(feed, config.OracleCacheTTL(&cfg))
	}

	feed, err := oracle.NewStaticFeed(cfg.PriceOracle.Prices)
	if err != nil {
		panic(err)
	}

	return feed
}

func providePriceService() core.IPriceService {
	maxAge, err := config.MaxPriceAge(&cfg)
	if err != nil {
		panic(err)
	}

	return oracle.New(providePriceFeed(), maxAge)
}

func provideLedger(balances core.IBalanceStore) *token.Ledger {
	return token.New(balances, cfg.App.PoolAccount, cfg.App.RewardAsset)
}

func provideEngineConfig() engine.Config {
	rewardPerUnit, err := config.RewardPerUnit(&cfg)
	if err != nil {
		panic(err)
	}

	closeFactor, err := config.CloseFactor(&cfg)
	if err != nil {
		panic(err)
	}

	return engine.Config{
		RewardUnit:    cfg.App.RewardUnit,
		RewardPerUnit: rewardPerUnit,
		CloseFactor:   closeFactor,
		PoolAccount:   cfg.App.PoolAccount,
	}
}

type app struct {
	db       *db.DB
	store    core.IEngineStore
	registry core.IAssetRegistry
	ledger   *token.Ledger
	engine   *engine.Engine
}

func provideApp() *app {
	database := provideDatabase()
	store := provideEngineStore(database)
	reg := provideRegistry(provideAssetStore(database))
	ledger := provideLedger(provideBalanceStore(database))

	e := engine.New(
		store,
		reg,
		providePriceService(),
		account.New(),
		ledger,
		ledger,
		provideBlockService(),
		providePauseStore(database),
		provideConfig(),
		provideEngineConfig(),
	)

	return &app{
		db:       database,
		store:    store,
		registry: reg,
		ledger:   ledger,
		engine:   e,
	}
}

// bootstrapAssets registers the assets of the config file that are not
// registered yet, on behalf of the first admin
func bootstrapAssets(ctx context.Context, e core.IEngine) error {
	log := logger.FromContext(ctx)

	if len(cfg.Assets) == 0 {
		return nil
	}

	if len(cfg.Admins) == 0 {
		log.Warnln("skip: bootstrap assets without admins")
		return nil
	}

	for _, opt := range cfg.Assets {
		asset, err := config.AssetConfig(opt)
		if err != nil {
			return err
		}

		if _, err := e.AddAsset(ctx, cfg.Admins[0], asset); err != nil {
			if errors.Is(err, core.ErrAssetExists) {
				continue
			}

			return err
		}

		log.WithFields(structs.Map(opt)).Infoln("asset bootstrapped")
	}

	return nil
}
