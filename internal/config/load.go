package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads and validates the config file at path. Unset fields fall back
// to Defaults. Used for watcher-driven reloads; initial load goes through
// the root command's viper instance.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := Defaults()
	v.SetDefault("editor.trigger", defaults.Editor.Trigger)
	v.SetDefault("editor.smart_quotes", defaults.Editor.SmartQuotes)
	v.SetDefault("editor.placeholder", defaults.Editor.Placeholder)
	v.SetDefault("directory.cache_ttl_seconds", defaults.Directory.CacheTTLSeconds)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}
