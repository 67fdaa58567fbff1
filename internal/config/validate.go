package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "text"}
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically. All
// violations are reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port))
	}

	if c.Coordinator.Interval <= 0 {
		errs = append(errs, fmt.Errorf("coordinator.interval must be > 0 (got %s)", c.Coordinator.Interval))
	}
	if c.Coordinator.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("coordinator.cache_size must be > 0 (got %d)", c.Coordinator.CacheSize))
	}

	if u, err := url.Parse(c.Jisho.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("jisho.base_url must be an absolute URL (got %q)", c.Jisho.BaseURL))
	}

	if c.WebSocket.SendBuffer <= 0 {
		errs = append(errs, fmt.Errorf("websocket.send_buffer must be > 0 (got %d)", c.WebSocket.SendBuffer))
	}
	if c.WebSocket.MaxMessageBytes <= 0 {
		errs = append(errs, fmt.Errorf("websocket.max_message_bytes must be > 0 (got %d)", c.WebSocket.MaxMessageBytes))
	}
	if c.WebSocket.UpgradesPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("websocket.upgrades_per_minute must be > 0 (got %d)", c.WebSocket.UpgradesPerMinute))
	}

	if c.Database.Enabled() {
		if c.Database.MinConns > c.Database.MaxConns {
			errs = append(errs, fmt.Errorf("database.min_conns (%d) exceeds max_conns (%d)", c.Database.MinConns, c.Database.MaxConns))
		}
		if c.Database.RetentionDays <= 0 {
			errs = append(errs, fmt.Errorf("database.retention_days must be > 0 (got %d)", c.Database.RetentionDays))
		}
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level must be one of %s (got %q)", strings.Join(logLevels, ", "), c.Log.Level))
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Errorf("log.format must be one of %s (got %q)", strings.Join(logFormats, ", "), c.Log.Format))
	}

	return errors.Join(errs...)
}
