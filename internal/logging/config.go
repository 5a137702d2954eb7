package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/danmuck/sockecho/internal/observability"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	EnvLogLevel     = "SOCKECHO_LOG_LEVEL"
	EnvLogTimestamp = "SOCKECHO_LOG_TIMESTAMP"
	EnvLogNoColor   = "SOCKECHO_LOG_NOCOLOR"
)

const appName = "socket-activate-echo"

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config describes console and optional rotating file output.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	Output    io.Writer

	File       string
	MaxSizeMB  int
	MaxBackups int
}

var testOnce sync.Once

// ConfigureTests installs the test profile once per test binary.
func ConfigureTests() {
	testOnce.Do(func() {
		cfg := DefaultConfig(ProfileTest)
		ApplyEnvOverrides(&cfg)
		Configure(cfg)
	})
}

// Configure builds the process logger and installs it as the global zerolog logger.
func Configure(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(cfg.Level)
	logger := observability.InitLogger(appName, writer(cfg), cfg.Timestamp)
	return logger.Level(cfg.Level)
}

func DefaultConfig(profile Profile) Config {
	cfg := Config{
		Output:     os.Stdout,
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
	switch profile {
	case ProfileTest:
		cfg.Level = zerolog.DebugLevel
		cfg.Timestamp = false
	default:
		cfg.Level = zerolog.InfoLevel
		cfg.Timestamp = true
	}
	return cfg
}

func ApplyEnvOverrides(cfg *Config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

func writer(cfg Config) io.Writer {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	console := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    cfg.NoColor,
		TimeFormat: time.RFC3339,
	}
	if !cfg.Timestamp {
		console.PartsExclude = []string{zerolog.TimestampFieldName}
	}
	if strings.TrimSpace(cfg.File) == "" {
		return console
	}
	file := &lumberjack.Logger{
		Filename:   strings.TrimSpace(cfg.File),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	return zerolog.MultiLevelWriter(console, file)
}

func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
