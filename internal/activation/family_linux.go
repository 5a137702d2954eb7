package activation

import "golang.org/x/sys/unix"

func socketFamily(fd int) (Family, error) {
	domain, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_DOMAIN)
	if err != nil {
		return FamilyOther, err
	}
	switch domain {
	case unix.AF_UNIX:
		return FamilyUnix, nil
	case unix.AF_VSOCK:
		return FamilyVsock, nil
	case unix.AF_INET:
		return FamilyInet, nil
	case unix.AF_INET6:
		return FamilyInet6, nil
	default:
		return FamilyOther, nil
	}
}
