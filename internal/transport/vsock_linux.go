package transport

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/mdlayher/vsock"
	"golang.org/x/sys/unix"
)

func vsockListener(f *os.File) (net.Listener, error) {
	l, err := vsock.FileListener(f)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// vsockDatagramConn serves AF_VSOCK SOCK_DGRAM sockets, which neither the
// standard library nor mdlayher/vsock wrap. I/O goes through the runtime
// poller via RawConn.
type vsockDatagramConn struct {
	file   *os.File
	raw    syscall.RawConn
	local  net.Addr
	closed atomic.Bool
}

func vsockPacketConn(f *os.File) (net.PacketConn, error) {
	fd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		return nil, fmt.Errorf("dup: %w", err)
	}
	unix.CloseOnExec(fd)
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("set nonblock: %w", err)
	}

	var local net.Addr
	if sa, err := unix.Getsockname(fd); err == nil {
		local = vsockAddr(sa)
	}

	// A nonblocking descriptor is registered with the poller by os.NewFile.
	file := os.NewFile(uintptr(fd), fileName(f))
	raw, err := file.SyscallConn()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return &vsockDatagramConn{file: file, raw: raw, local: local}, nil
}

func (c *vsockDatagramConn) ReadFrom(p []byte) (int, net.Addr, error) {
	var (
		n     int
		from  unix.Sockaddr
		opErr error
	)
	err := c.raw.Read(func(fd uintptr) bool {
		n, from, opErr = unix.Recvfrom(int(fd), p, 0)
		return !errors.Is(opErr, unix.EAGAIN)
	})
	if err == nil {
		err = opErr
	}
	if err != nil {
		return 0, nil, c.opError("read", nil, err)
	}
	return n, vsockAddr(from), nil
}

func (c *vsockDatagramConn) WriteTo(p []byte, addr net.Addr) (int, error) {
	to, ok := addr.(*vsock.Addr)
	if !ok || to == nil {
		return 0, c.opError("write", addr, unix.EINVAL)
	}
	sa := &unix.SockaddrVM{CID: to.ContextID, Port: to.Port}
	var opErr error
	err := c.raw.Write(func(fd uintptr) bool {
		opErr = unix.Sendto(int(fd), p, 0, sa)
		return !errors.Is(opErr, unix.EAGAIN)
	})
	if err == nil {
		err = opErr
	}
	if err != nil {
		return 0, c.opError("write", addr, err)
	}
	return len(p), nil
}

func (c *vsockDatagramConn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return net.ErrClosed
	}
	return c.file.Close()
}

func (c *vsockDatagramConn) LocalAddr() net.Addr { return c.local }

func (c *vsockDatagramConn) SetDeadline(t time.Time) error      { return c.file.SetDeadline(t) }
func (c *vsockDatagramConn) SetReadDeadline(t time.Time) error  { return c.file.SetReadDeadline(t) }
func (c *vsockDatagramConn) SetWriteDeadline(t time.Time) error { return c.file.SetWriteDeadline(t) }

// opError reports poller errors after Close as net.ErrClosed, matching net conns.
func (c *vsockDatagramConn) opError(op string, addr net.Addr, err error) error {
	if c.closed.Load() {
		err = net.ErrClosed
	}
	return &net.OpError{Op: op, Net: "vsock", Source: c.local, Addr: addr, Err: err}
}

func vsockAddr(sa unix.Sockaddr) net.Addr {
	vm, ok := sa.(*unix.SockaddrVM)
	if !ok {
		return nil
	}
	return &vsock.Addr{ContextID: vm.CID, Port: vm.Port}
}
