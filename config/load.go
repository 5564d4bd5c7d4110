package config

import (
	"lending/core"

	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file
func Load(configFile string, cfg *core.Config) error {
	configUtil.AutomaticLoadEnv("LENDING")
	if err := configUtil.LoadYaml(configFile, cfg); err != nil {
		return err
	}

	defaultApp(cfg)
	defaultPriceOracle(cfg)
	return nil
}
