package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/sockecho/internal/testutil/testlog"
	"github.com/rs/zerolog"
)

func TestLoadRuntimeConfigExample(t *testing.T) {
	testlog.Start(t)
	cfg, err := loadRuntimeConfig("ex.config.toml")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	policy := cfg.Service.Policy
	if policy.Debug || !policy.Notify || policy.StartSleep != 2 {
		t.Fatalf("unexpected policy: %+v", policy)
	}
	if cfg.Service.AdminListenAddr != "127.0.0.1:9310" {
		t.Fatalf("unexpected admin listen: %q", cfg.Service.AdminListenAddr)
	}
	if len(cfg.Service.AdminCORSOrigins) != 1 || cfg.Service.AdminCORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected cors origins: %+v", cfg.Service.AdminCORSOrigins)
	}
	if cfg.Logging.Level != zerolog.InfoLevel {
		t.Fatalf("unexpected log level: %v", cfg.Logging.Level)
	}
	if cfg.Logging.File != "" || cfg.Logging.MaxSizeMB != 10 || cfg.Logging.MaxBackups != 3 {
		t.Fatalf("unexpected log file settings: %+v", cfg.Logging)
	}
	b := cfg.Service.AcceptBackoff
	if b.InitialDelay != 5*time.Millisecond || b.MaxDelay != time.Second || b.Multiplier != 2.0 {
		t.Fatalf("unexpected accept backoff: %+v", b)
	}
}

func TestLoadRuntimeConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, "debug = true\n")
	cfg, err := loadRuntimeConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := defaultRuntimeConfig()
	if !cfg.Service.Policy.Debug {
		t.Fatalf("debug not applied")
	}
	if cfg.Service.AcceptBackoff != want.Service.AcceptBackoff {
		t.Fatalf("backoff defaults lost: %+v", cfg.Service.AcceptBackoff)
	}
	if cfg.Logging.Level != want.Logging.Level {
		t.Fatalf("log level default lost: %v", cfg.Logging.Level)
	}
}

func TestLoadRuntimeConfigRejectsBadValues(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		body string
		want string
	}{
		{"accept_backoff_initial = \"soon\"\n", "accept_backoff_initial"},
		{"accept_backoff_max = \"1 parsec\"\n", "accept_backoff_max"},
		{"log_level = \"loud\"\n", "log_level"},
		{"start_sleep = \"two\"\n", "load config"},
	}
	for _, tc := range cases {
		_, err := loadRuntimeConfig(writeConfig(t, tc.body))
		if err == nil {
			t.Fatalf("%q: expected error", tc.body)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%q: error %q does not mention %q", tc.body, err, tc.want)
		}
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "echo.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
