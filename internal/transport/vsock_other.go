//go:build !linux

package transport

import (
	"fmt"
	"net"
	"os"
)

func vsockListener(*os.File) (net.Listener, error) {
	return nil, fmt.Errorf("%w: vsock requires linux", ErrUnsupported)
}

func vsockPacketConn(*os.File) (net.PacketConn, error) {
	return nil, fmt.Errorf("%w: vsock requires linux", ErrUnsupported)
}
