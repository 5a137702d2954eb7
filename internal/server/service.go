package server

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/danmuck/sockecho/internal/activation"
	"github.com/danmuck/sockecho/internal/notify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Service runs the echo server lifecycle as a standalone process.
type Service struct {
	cfg     ServiceConfig
	notify  *notify.Notifier
	logger  zerolog.Logger
	inherit func() ([]activation.Descriptor, error)

	mu    sync.RWMutex
	units []UnitInfo
	ready atomic.Bool
}

// Service constructor using default config.
func NewService() *Service {
	return NewServiceWithConfig(DefaultServiceConfig())
}

// Service constructor using explicit config.
func NewServiceWithConfig(cfg ServiceConfig) *Service {
	return &Service{
		cfg:    cfg,
		notify: notify.New(cfg.Policy.Notify),
		logger: log.Logger,
		inherit: func() ([]activation.Descriptor, error) {
			return activation.Inherited(true)
		},
	}
}

// Run blocks until SIGINT or SIGTERM and every unit has returned.
func (s *Service) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.RunContext(ctx)
}

// RunContext is Run with the shutdown signal supplied as ctx.
func (s *Service) RunContext(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	descriptors, err := s.inherit()
	if err != nil {
		return err
	}
	s.logger.Info().
		Int("descriptors", len(descriptors)).
		Bool("debug", s.cfg.Policy.Debug).
		Bool("sdnotify", s.notify.Enabled()).
		Uint("start_sleep", s.cfg.Policy.StartSleep).
		Msg("starting")

	if !s.sleep(ctx) {
		closeDescriptors(descriptors)
		s.logger.Info().Msg("shutdown during startup sleep")
		return nil
	}

	var (
		admin   *Admin
		adminLn net.Listener
	)
	if addr := strings.TrimSpace(s.cfg.AdminListenAddr); addr != "" {
		admin, err = NewAdmin(s, s.cfg.AdminCORSOrigins, s.logger)
		if err == nil {
			adminLn, err = net.Listen("tcp", addr)
			if err != nil {
				err = fmt.Errorf("server: admin listen %q: %w", addr, err)
			}
		}
		if err != nil {
			closeDescriptors(descriptors)
			return err
		}
		s.logger.Info().Str("addr", adminLn.Addr().String()).Msg("admin listening")
	}

	g, gctx := errgroup.WithContext(ctx)
	if admin != nil {
		g.Go(func() error { return admin.Serve(gctx, adminLn) })
	}

	units := Dispatch(gctx, g, descriptors, DispatchOptions{
		Logger:        s.logger,
		AcceptBackoff: s.cfg.AcceptBackoff,
		Trace:         s.cfg.Policy.Debug,
	})
	s.setUnits(units)
	if len(units) == 0 {
		s.logger.Warn().Msg("no inherited descriptor could be served")
	}

	s.warnNotify(s.notify.Ready())
	s.warnNotify(s.notify.Status("Server is ready"))
	s.logger.Info().Int("units", len(units)).Msg("ready")

	if interval := s.notify.WatchdogInterval(); interval > 0 {
		g.Go(func() error {
			s.warnNotify(s.notify.RunWatchdog(gctx, interval/2))
			return nil
		})
	}

	<-gctx.Done()
	s.ready.Store(false)
	s.warnNotify(s.notify.Stopping())
	s.warnNotify(s.notify.Status("Shutting down"))
	s.logger.Info().Msg("shutting down")
	return g.Wait()
}

// Ready reports whether dispatch has finished and shutdown has not begun.
func (s *Service) Ready() bool {
	return s.ready.Load()
}

// Units returns the listeners and datagram sessions that were started.
func (s *Service) Units() []UnitInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]UnitInfo, len(s.units))
	copy(out, s.units)
	return out
}

func (s *Service) setUnits(units []UnitInfo) {
	s.mu.Lock()
	s.units = units
	s.mu.Unlock()
	s.ready.Store(true)
}

// sleep holds dispatch for the configured start delay. It returns false when
// ctx ends first.
func (s *Service) sleep(ctx context.Context) bool {
	n := s.cfg.Policy.StartSleep
	if n == 0 {
		return true
	}
	s.warnNotify(s.notify.Statusf("Sleeping %d second(s)...", n))
	s.logger.Debug().Uint("seconds", n).Msg("sleeping before dispatch")

	timer := time.NewTimer(time.Duration(n) * time.Second)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (s *Service) warnNotify(err error) {
	if err != nil {
		s.logger.Warn().Err(err).Msg("service manager notification failed")
	}
}

func closeDescriptors(descriptors []activation.Descriptor) {
	for _, d := range descriptors {
		_ = d.Close()
	}
}
