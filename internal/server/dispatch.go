package server

import (
	"context"
	"errors"

	"github.com/danmuck/sockecho/internal/activation"
	"github.com/danmuck/sockecho/internal/echo"
	"github.com/danmuck/sockecho/internal/transport"
	"github.com/rs/zerolog"
)

// UnitInfo describes one started listener or datagram session.
type UnitInfo struct {
	Index int             `json:"index"`
	FD    int             `json:"fd"`
	Name  string          `json:"name,omitempty"`
	Kind  activation.Kind `json:"kind"`
	Addr  string          `json:"addr,omitempty"`
}

// DispatchOptions carries the shared settings for started units.
type DispatchOptions struct {
	Logger        zerolog.Logger
	AcceptBackoff echo.BackoffConfig
	// Trace enables the per-connection and per-datagram debug events.
	Trace bool
}

var (
	classify     = activation.Classify
	openEndpoint = transport.Open
)

// Dispatch classifies every descriptor in order and starts one listener or
// datagram session per served kind on spawn. It does not wait for any unit.
// Unclassified descriptors are left open and untouched.
func Dispatch(ctx context.Context, spawn echo.Spawner, descriptors []activation.Descriptor, opts DispatchOptions) []UnitInfo {
	units := make([]UnitInfo, 0, len(descriptors))
	for _, d := range descriptors {
		kind := classify(d.FD)
		if kind == activation.Unclassified {
			continue
		}

		ep, err := openEndpoint(d, kind)
		if err != nil {
			event := opts.Logger.Warn()
			if errors.Is(err, transport.ErrUnsupported) {
				event = opts.Logger.Info()
			}
			event.Err(err).
				Int("fd", d.FD).
				Str("name", d.Name).
				Str("transport", kind.String()).
				Msg("descriptor skipped")
			continue
		}

		trace := echo.NewTracer(opts.Logger, kind, d).WithTracing(opts.Trace)
		info := UnitInfo{Index: d.Index, FD: d.FD, Name: d.Name, Kind: kind}
		if addr := ep.Addr(); addr != nil {
			info.Addr = addr.String()
		}

		switch {
		case ep.Listener != nil:
			l := echo.NewListener(ep.Listener, kind, trace, opts.AcceptBackoff)
			spawn.Go(func() error { return l.Serve(ctx, spawn) })
		case ep.PacketConn != nil:
			s := echo.NewDatagramSession(ep.PacketConn, kind, trace)
			spawn.Go(func() error { return s.Serve(ctx) })
		default:
			continue
		}
		trace.Logger().Info().Str("addr", info.Addr).Msg("serving")
		units = append(units, info)
	}
	return units
}
