// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

// Package config builds relayer configuration from flags, environment
// variables, and an optional config file. Every key may be provided via any
// of the three sources; environment variables use the NFTBRIDGE_ prefix with
// dashes replaced by underscores.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the validated relayer configuration.
type Config struct {
	LogLevel        string
	QueueSize       int
	MaxRetryElapsed time.Duration
	SeenCacheSize   int
}

// BuildFlagSet returns the relayer's command line flags with their defaults.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("relayer", pflag.ContinueOnError)
	fs.String(ConfigFileKey, "", "Path to an optional config file")
	fs.String(LogLevelKey, "info", "Log level")
	fs.Int(QueueSizeKey, 1024, "Maximum number of undelivered envelopes")
	fs.Duration(MaxRetryElapsedKey, 30*time.Second, "How long a failing delivery is retried")
	fs.Int(SeenCacheSizeKey, 4096, "Size of the delivered-message ID cache")
	return fs
}

// BuildViper layers environment variables and an optional config file over
// the given flags.
func BuildViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("nftbridge")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	if cfgFile := v.GetString(ConfigFileKey); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", cfgFile, err)
		}
	}
	return v, nil
}

// NewConfig builds and validates a Config from a viper instance.
func NewConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		LogLevel:        v.GetString(LogLevelKey),
		QueueSize:       v.GetInt(QueueSizeKey),
		MaxRetryElapsed: v.GetDuration(MaxRetryElapsedKey),
		SeenCacheSize:   v.GetInt(SeenCacheSizeKey),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("failed to validate configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for impossible values.
func (c Config) Validate() error {
	if c.QueueSize <= 0 {
		return fmt.Errorf("%s must be positive, got %d", QueueSizeKey, c.QueueSize)
	}
	if c.MaxRetryElapsed <= 0 {
		return fmt.Errorf("%s must be positive, got %s", MaxRetryElapsedKey, c.MaxRetryElapsed)
	}
	if c.SeenCacheSize <= 0 {
		return fmt.Errorf("%s must be positive, got %d", SeenCacheSizeKey, c.SeenCacheSize)
	}
	return nil
}
