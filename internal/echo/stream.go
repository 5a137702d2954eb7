package echo

import (
	"context"
	"io"
	"net"

	"github.com/danmuck/sockecho/internal/activation"
	"github.com/danmuck/sockecho/internal/observability"
)

// StreamSession echoes one accepted connection until the peer closes it,
// an I/O error occurs or the process shuts down.
type StreamSession struct {
	conn  net.Conn
	kind  activation.Kind
	trace Tracer
	buf   [BufferSize]byte
}

func NewStreamSession(conn net.Conn, kind activation.Kind, trace Tracer) *StreamSession {
	return &StreamSession{conn: conn, kind: kind, trace: trace}
}

// Serve runs the read/write loop. Termination is never reported as an error:
// an orderly close and an I/O failure both just end the session.
func (s *StreamSession) Serve(ctx context.Context) {
	stop := context.AfterFunc(ctx, func() { _ = s.conn.Close() })
	defer stop()
	defer s.conn.Close()

	label := s.kind.String()
	peer := s.conn.RemoteAddr()
	for {
		n, err := s.conn.Read(s.buf[:])
		if n > 0 {
			s.trace.Received(n, peer)
			observability.RecordEchoBytes(label, observability.DirectionIn, n)

			if werr := writeFull(s.conn, s.buf[:n]); werr != nil {
				s.trace.Closed(peer, werr)
				return
			}
			s.trace.Sent(n, peer)
			observability.RecordEchoBytes(label, observability.DirectionOut, n)
		}
		if err != nil || n == 0 {
			if err == io.EOF {
				err = nil
			}
			s.trace.Closed(peer, err)
			return
		}
	}
}

// writeFull keeps writing until p is sent. net conns already loop internally;
// raw socket conns such as vsock may return short writes.
func writeFull(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}
