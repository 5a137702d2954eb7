package echo

import (
	"net"

	"github.com/danmuck/sockecho/internal/activation"
	"github.com/rs/zerolog"
)

// Tracer emits the debug trace points of one unit. Events are only rendered
// when tracing is on and the logger runs at debug level.
type Tracer struct {
	log    zerolog.Logger
	events zerolog.Logger
}

// NewTracer tags every event with the unit's transport, fd and optional name.
func NewTracer(logger zerolog.Logger, kind activation.Kind, d activation.Descriptor) Tracer {
	ctx := logger.With().
		Str("transport", kind.String()).
		Int("fd", d.FD)
	if d.Name != "" {
		ctx = ctx.Str("name", d.Name)
	}
	logger = ctx.Logger()
	return Tracer{log: logger, events: logger}
}

// WithTracing returns a copy whose trace points are dropped when on is false.
// Logger is unaffected.
func (t Tracer) WithTracing(on bool) Tracer {
	if on {
		t.events = t.log
	} else {
		t.events = zerolog.Nop()
	}
	return t
}

// Logger returns the tagged logger for non-trace events.
func (t Tracer) Logger() *zerolog.Logger {
	return &t.log
}

func (t Tracer) Accepted(peer net.Addr) {
	t.event(peer).Msg("connection accepted")
}

func (t Tracer) Received(n int, peer net.Addr) {
	t.event(peer).Int("bytes", n).Msg("received")
}

func (t Tracer) Sent(n int, peer net.Addr) {
	t.event(peer).Int("bytes", n).Msg("sent")
}

func (t Tracer) Failed(op string, peer net.Addr, err error) {
	t.event(peer).Str("op", op).Err(err).Msg("i/o error")
}

func (t Tracer) Closed(peer net.Addr, err error) {
	e := t.event(peer)
	if err != nil {
		e = e.Err(err)
	}
	e.Msg("session closed")
}

func (t Tracer) event(peer net.Addr) *zerolog.Event {
	e := t.events.Debug()
	if peer != nil {
		e = e.Str("peer", peer.String())
	}
	return e
}
