package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/danmuck/sockecho/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const adminShutdownTimeout = 2 * time.Second

// UnitSource reports what the dispatcher started.
type UnitSource interface {
	Ready() bool
	Units() []UnitInfo
}

// Admin is the optional HTTP surface for health, readiness and metrics.
type Admin struct {
	router  *gin.Engine
	source  UnitSource
	started time.Time
}

func NewAdmin(source UnitSource, corsOrigins []string, logger zerolog.Logger) (*Admin, error) {
	corsCfg := cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if err := corsCfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: admin cors: %v", ErrInvalidPolicy, err)
	}

	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware("admin"))
	r.Use(cors.New(corsCfg))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	a := &Admin{
		router:  r,
		source:  source,
		started: time.Now(),
	}
	a.registerRoutes()
	return a, nil
}

func (a *Admin) Handler() http.Handler {
	return a.router
}

// Serve answers requests on ln until ctx is done.
func (a *Admin) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), adminShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})
	defer stop()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: admin serve: %w", err)
	}
	return nil
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
