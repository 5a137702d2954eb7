// Package transport turns classified descriptors into Go network endpoints.
//
// Every stream kind is exposed as a net.Listener and every datagram kind as a
// net.PacketConn, so the echo loops are written once against those interfaces.
package transport

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/danmuck/sockecho/internal/activation"
)

var (
	ErrUnsupported  = errors.New("transport: unsupported descriptor kind")
	ErrUnclassified = errors.New("transport: descriptor is not classified")
)

// Endpoint is an opened descriptor. Exactly one of Listener or PacketConn is set.
type Endpoint struct {
	Kind       activation.Kind
	Listener   net.Listener
	PacketConn net.PacketConn
}

// Addr returns the local address of the endpoint.
func (e Endpoint) Addr() net.Addr {
	switch {
	case e.Listener != nil:
		return e.Listener.Addr()
	case e.PacketConn != nil:
		return e.PacketConn.LocalAddr()
	}
	return nil
}

// Close releases the endpoint.
func (e Endpoint) Close() error {
	switch {
	case e.Listener != nil:
		return e.Listener.Close()
	case e.PacketConn != nil:
		return e.PacketConn.Close()
	}
	return nil
}

// Open wraps d as the endpoint matching kind. The returned endpoint owns a
// duplicate of the descriptor; d itself is closed whether or not Open succeeds.
func Open(d activation.Descriptor, kind activation.Kind) (Endpoint, error) {
	defer d.Close()

	if d.File == nil {
		return Endpoint{}, fmt.Errorf("transport: descriptor %s has no file", d.Label())
	}

	ep := Endpoint{Kind: kind}
	var err error
	switch kind {
	case activation.TCP4, activation.TCP6, activation.UnixStream, activation.GenericStream:
		ep.Listener, err = net.FileListener(d.File)
	case activation.VsockStream:
		ep.Listener, err = vsockListener(d.File)
	case activation.UDP4, activation.UDP6, activation.UnixDatagram:
		ep.PacketConn, err = net.FilePacketConn(d.File)
	case activation.VsockDatagram:
		ep.PacketConn, err = vsockPacketConn(d.File)
	case activation.Unclassified:
		return Endpoint{}, ErrUnclassified
	default:
		return Endpoint{}, fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}
	if err != nil {
		return Endpoint{}, fmt.Errorf("transport: open %s as %s: %w", d.Label(), kind, err)
	}
	return ep, nil
}

func fileName(f *os.File) string {
	if f == nil {
		return ""
	}
	return f.Name()
}
