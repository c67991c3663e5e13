package config

import (
	"creditmarket/core"

	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file, CREDIT_ prefixed env vars override it
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("CREDIT")
	if err := configUtil.LoadYaml(configFile, config); err != nil {
		return err
	}

	defaults(config)
	return nil
}

func defaults(cfg *core.Config) {
	if cfg.App.Location == "" {
		cfg.App.Location = "UTC"
	}

	if cfg.Ledger.ParamsCacheSize <= 0 {
		cfg.Ledger.ParamsCacheSize = 1024
	}
}
