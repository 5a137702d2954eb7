package echo

import (
	"context"
	"errors"
	"net"
	"sync/atomic"

	"github.com/danmuck/sockecho/internal/activation"
	"github.com/danmuck/sockecho/internal/observability"
)

// Spawner starts a unit of work on the process executor.
type Spawner interface {
	Go(f func() error)
}

// Listener runs the accept loop of one inherited stream socket.
type Listener struct {
	ln      net.Listener
	kind    activation.Kind
	trace   Tracer
	backoff BackoffConfig
	active  atomic.Int64
	total   atomic.Uint64
}

func NewListener(ln net.Listener, kind activation.Kind, trace Tracer, cfg BackoffConfig) *Listener {
	return &Listener{
		ln:      ln,
		kind:    kind,
		trace:   trace,
		backoff: cfg.WithDefaults(),
	}
}

// Addr returns the listening address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// ActiveSessions returns the number of sessions currently open.
func (l *Listener) ActiveSessions() int64 {
	return l.active.Load()
}

// AcceptedSessions returns the number of sessions accepted so far.
func (l *Listener) AcceptedSessions() uint64 {
	return l.total.Load()
}

// Serve accepts connections and spawns one StreamSession each until ctx is
// cancelled. Accept failures that are not shutdown are retried after a
// backoff delay; they never stop the listener.
func (l *Listener) Serve(ctx context.Context, spawn Spawner) error {
	stop := context.AfterFunc(ctx, func() { _ = l.ln.Close() })
	defer stop()
	defer l.ln.Close()

	label := l.kind.String()
	retry := newBackoff(l.backoff)
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			delay := retry.NextBackOff()
			observability.RecordAcceptError(label)
			l.trace.Logger().Warn().
				Err(err).
				Dur("retry_in", delay).
				Msg("accept failed")
			if !sleepContext(ctx, delay) {
				return nil
			}
			continue
		}
		retry.Reset()

		l.trace.Accepted(conn.RemoteAddr())
		l.total.Add(1)
		l.active.Add(1)
		done := observability.StreamSessionStarted(label)
		session := NewStreamSession(conn, l.kind, l.trace)
		spawn.Go(func() error {
			defer l.active.Add(-1)
			defer done()
			session.Serve(ctx)
			return nil
		})
	}
}
