// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package config

const (
	// Command line option keys
	ConfigFileKey = "config-file"

	// Top-level configuration keys
	LogLevelKey        = "log-level"
	QueueSizeKey       = "queue-size"
	MaxRetryElapsedKey = "max-retry-elapsed"
	SeenCacheSizeKey   = "seen-cache-size"
)
