//go:build unix && !linux

package activation

import "golang.org/x/sys/unix"

// SO_DOMAIN is Linux-only; fall back to the bound address type.
func socketFamily(fd int) (Family, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return FamilyOther, err
	}
	switch sa.(type) {
	case *unix.SockaddrUnix:
		return FamilyUnix, nil
	case *unix.SockaddrInet4:
		return FamilyInet, nil
	case *unix.SockaddrInet6:
		return FamilyInet6, nil
	default:
		return FamilyOther, nil
	}
}
