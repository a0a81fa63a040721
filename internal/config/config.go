// Package config decodes expiryd's TOML configuration file.
package config

import (
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds everything expiryd needs to start a core and drive it.
type Config struct {
	Actor   ActorConfig   `toml:"actor"`
	Store   StoreConfig   `toml:"store"`
	Logging LoggingConfig `toml:"logging"`
}

// ActorConfig controls the expiry actor's timing knobs.
type ActorConfig struct {
	// NapInterval is the long, cosmetic sleep Expire returns when its
	// heap is empty.
	NapInterval time.Duration `toml:"nap_interval"`
}

// StoreConfig controls the in-process object index.
type StoreConfig struct {
	IndexCapacity int `toml:"index_capacity"`
	// MaxScan caps each domain LRU's NukeOne scan; 0 is unbounded.
	MaxScan int `toml:"max_scan"`
}

// LoggingConfig controls the zap/lumberjack sink.
type LoggingConfig struct {
	FilePath   string `toml:"file_path"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Default returns the configuration expiryd runs with when no config
// file is given.
func Default() Config {
	return Config{
		Actor: ActorConfig{
			NapInterval: 60 * time.Second,
		},
		Store: StoreConfig{
			IndexCapacity: 10_000,
			MaxScan:       0,
		},
		Logging: LoggingConfig{
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 14,
		},
	}
}

// Load decodes path into a Config seeded with Default's values, so a
// config file only needs to set the fields it wants to override.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
