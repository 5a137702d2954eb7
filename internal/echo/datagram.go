package echo

import (
	"context"
	"errors"
	"net"
	"sync/atomic"

	"github.com/danmuck/sockecho/internal/activation"
	"github.com/danmuck/sockecho/internal/observability"
)

// DatagramSession echoes every datagram received on one inherited socket
// back to its sender. It never stops on a receive or send failure.
type DatagramSession struct {
	pc     net.PacketConn
	kind   activation.Kind
	trace  Tracer
	buf    [BufferSize]byte
	sender net.Addr
	echoed atomic.Uint64
}

func NewDatagramSession(pc net.PacketConn, kind activation.Kind, trace Tracer) *DatagramSession {
	return &DatagramSession{pc: pc, kind: kind, trace: trace}
}

// Addr returns the local address of the socket.
func (s *DatagramSession) Addr() net.Addr {
	return s.pc.LocalAddr()
}

// Echoed returns the number of datagrams sent back so far.
func (s *DatagramSession) Echoed() uint64 {
	return s.echoed.Load()
}

// Serve alternates receive and send until ctx is cancelled. Empty and failed
// receives produce no reply.
func (s *DatagramSession) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = s.pc.Close() })
	defer stop()
	defer s.pc.Close()

	label := s.kind.String()
	for {
		n, addr, err := s.pc.ReadFrom(s.buf[:])
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.trace.Failed("receive", addr, err)
			observability.RecordDatagramError(label, "receive")
			continue
		}
		s.trace.Received(n, addr)
		if n == 0 {
			continue
		}
		observability.RecordEchoBytes(label, observability.DirectionIn, n)

		s.sender = addr
		sent, err := s.pc.WriteTo(s.buf[:n], s.sender)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.trace.Failed("send", s.sender, err)
			observability.RecordDatagramError(label, "send")
			continue
		}
		s.trace.Sent(sent, s.sender)
		observability.RecordEchoBytes(label, observability.DirectionOut, sent)
		s.echoed.Add(1)
	}
}
