package activation

import "golang.org/x/sys/unix"

// Family is the address family of a probed socket.
type Family int

const (
	FamilyOther Family = iota
	FamilyUnix
	FamilyVsock
	FamilyInet
	FamilyInet6
)

// Type is the socket discipline of a probed socket.
type Type int

const (
	TypeOther Type = iota
	TypeStream
	TypeDatagram
)

// Socket is the option snapshot classification works from.
type Socket struct {
	Family    Family
	Type      Type
	Listening bool
}

// Classify probes fd and maps it to a transport kind. Descriptors that are
// not sockets, or sockets this process does not serve, are Unclassified.
func Classify(fd int) Kind {
	sock, ok := Probe(fd)
	if !ok {
		return Unclassified
	}
	return ClassifySocket(sock)
}

// Probe reads the socket type, family and listening state of fd.
func Probe(fd int) (Socket, bool) {
	sotype, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_TYPE)
	if err != nil {
		return Socket{}, false
	}
	family, err := socketFamily(fd)
	if err != nil {
		return Socket{}, false
	}

	sock := Socket{Family: family}
	switch sotype {
	case unix.SOCK_STREAM:
		sock.Type = TypeStream
		accepting, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ACCEPTCONN)
		sock.Listening = err == nil && accepting != 0
	case unix.SOCK_DGRAM:
		sock.Type = TypeDatagram
	default:
		sock.Type = TypeOther
	}
	return sock, true
}

// ClassifySocket applies the fixed match order: any listening stream socket
// first, tested as local, vsock, IPv4 and IPv6 and otherwise generic; then
// datagram sockets in the same family order.
func ClassifySocket(sock Socket) Kind {
	switch {
	case sock.Type == TypeStream && sock.Listening:
		switch sock.Family {
		case FamilyUnix:
			return UnixStream
		case FamilyVsock:
			return VsockStream
		case FamilyInet:
			return TCP4
		case FamilyInet6:
			return TCP6
		default:
			return GenericStream
		}
	case sock.Type == TypeDatagram:
		switch sock.Family {
		case FamilyUnix:
			return UnixDatagram
		case FamilyVsock:
			return VsockDatagram
		case FamilyInet:
			return UDP4
		case FamilyInet6:
			return UDP6
		}
	}
	return Unclassified
}
