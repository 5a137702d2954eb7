package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/sockecho/internal/logging"
	"github.com/danmuck/sockecho/internal/server"
)

type fileConfig struct {
	Debug            bool     `toml:"debug"`
	SDNotify         bool     `toml:"sdnotify"`
	StartSleep       uint     `toml:"start_sleep"`
	AdminListen      string   `toml:"admin_listen"`
	AdminCORSOrigins []string `toml:"admin_cors_origins"`

	LogLevel      string `toml:"log_level"`
	LogFile       string `toml:"log_file"`
	LogMaxSizeMB  int    `toml:"log_max_size_mb"`
	LogMaxBackups int    `toml:"log_max_backups"`

	AcceptBackoffInitial    string  `toml:"accept_backoff_initial"`
	AcceptBackoffMax        string  `toml:"accept_backoff_max"`
	AcceptBackoffMultiplier float64 `toml:"accept_backoff_multiplier"`
}

type runtimeConfig struct {
	Service server.ServiceConfig
	Logging logging.Config
}

func defaultRuntimeConfig() runtimeConfig {
	return runtimeConfig{
		Service: server.DefaultServiceConfig(),
		Logging: logging.DefaultConfig(logging.ProfileRuntime),
	}
}

func loadRuntimeConfig(path string) (runtimeConfig, error) {
	cfg := defaultRuntimeConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return runtimeConfig{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("debug") {
		cfg.Service.Policy.Debug = raw.Debug
	}
	if meta.IsDefined("sdnotify") {
		cfg.Service.Policy.Notify = raw.SDNotify
	}
	if meta.IsDefined("start_sleep") {
		cfg.Service.Policy.StartSleep = raw.StartSleep
	}
	if meta.IsDefined("admin_listen") {
		cfg.Service.AdminListenAddr = strings.TrimSpace(raw.AdminListen)
	}
	if meta.IsDefined("admin_cors_origins") {
		cfg.Service.AdminCORSOrigins = normalizeOrigins(raw.AdminCORSOrigins)
	}

	if meta.IsDefined("log_level") {
		lvl, ok := logging.ParseLevel(raw.LogLevel)
		if !ok {
			return runtimeConfig{}, fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
		cfg.Logging.Level = lvl
	}
	if meta.IsDefined("log_file") {
		cfg.Logging.File = strings.TrimSpace(raw.LogFile)
	}
	if meta.IsDefined("log_max_size_mb") {
		cfg.Logging.MaxSizeMB = raw.LogMaxSizeMB
	}
	if meta.IsDefined("log_max_backups") {
		cfg.Logging.MaxBackups = raw.LogMaxBackups
	}

	if meta.IsDefined("accept_backoff_initial") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.AcceptBackoffInitial))
		if err != nil {
			return runtimeConfig{}, fmt.Errorf("parse accept_backoff_initial: %w", err)
		}
		cfg.Service.AcceptBackoff.InitialDelay = d
	}
	if meta.IsDefined("accept_backoff_max") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.AcceptBackoffMax))
		if err != nil {
			return runtimeConfig{}, fmt.Errorf("parse accept_backoff_max: %w", err)
		}
		cfg.Service.AcceptBackoff.MaxDelay = d
	}
	if meta.IsDefined("accept_backoff_multiplier") {
		cfg.Service.AcceptBackoff.Multiplier = raw.AcceptBackoffMultiplier
	}

	return cfg, nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
