package main

import (
	"io"
	"strings"

	"github.com/danmuck/sockecho/internal/logging"
	"github.com/danmuck/sockecho/internal/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const longUsage = `Echo server for sockets passed in by the service manager.

Every inherited TCP, UDP, Unix and vsock socket is served: stream
connections get their bytes written back, datagrams are returned to
their sender. Start it from a systemd .socket unit or with

  systemd-socket-activate -l 127.0.0.1:7000 --datagram -l 127.0.0.1:7000 socket-activate-echo`

type options struct {
	configPath  string
	debug       bool
	sdnotify    bool
	startSleep  uint
	adminListen string
}

var runService = func(cfg runtimeConfig) error {
	logging.Configure(cfg.Logging)
	return server.NewServiceWithConfig(cfg.Service).Run()
}

func newRootCommand(out io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "socket-activate-echo [options]",
		Short:         "Echo server for socket-activated descriptors",
		Long:          longUsage,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			return runService(cfg)
		},
	}
	cmd.SetOut(out)

	flags := cmd.Flags()
	flags.BoolVarP(&opts.debug, "debug", "d", false, "trace every accept, read, write and datagram")
	flags.BoolVarP(&opts.sdnotify, "sdnotify", "s", false, "send readiness and status to the service manager")
	flags.UintVarP(&opts.startSleep, "start-sleep", "t", 0, "seconds to wait before serving")
	flags.StringVarP(&opts.configPath, "config", "c", "", "optional TOML config file")
	flags.StringVar(&opts.adminListen, "admin-listen", "", "admin HTTP address, empty disables it")
	return cmd
}

// resolveConfig layers defaults, the config file, changed flags and the
// logging environment, in that order. Debug always keeps debug events visible.
func resolveConfig(flags *pflag.FlagSet, opts options) (runtimeConfig, error) {
	cfg := defaultRuntimeConfig()
	if path := strings.TrimSpace(opts.configPath); path != "" {
		loaded, err := loadRuntimeConfig(path)
		if err != nil {
			return runtimeConfig{}, err
		}
		cfg = loaded
	}
	applyFlags(&cfg, flags, opts)

	logging.ApplyEnvOverrides(&cfg.Logging)
	if cfg.Service.Policy.Debug && cfg.Logging.Level > zerolog.DebugLevel {
		cfg.Logging.Level = zerolog.DebugLevel
	}

	if err := cfg.Service.Validate(); err != nil {
		return runtimeConfig{}, err
	}
	return cfg, nil
}

func applyFlags(cfg *runtimeConfig, flags *pflag.FlagSet, opts options) {
	if flags.Changed("debug") {
		cfg.Service.Policy.Debug = opts.debug
	}
	if flags.Changed("sdnotify") {
		cfg.Service.Policy.Notify = opts.sdnotify
	}
	if flags.Changed("start-sleep") {
		cfg.Service.Policy.StartSleep = opts.startSleep
	}
	if flags.Changed("admin-listen") {
		cfg.Service.AdminListenAddr = strings.TrimSpace(opts.adminListen)
	}
}
