package activation

// Kind is the transport an inherited descriptor was classified as.
type Kind int

const (
	Unclassified Kind = iota
	TCP4
	TCP6
	UnixStream
	VsockStream
	GenericStream
	UDP4
	UDP6
	UnixDatagram
	VsockDatagram
)

var kindNames = map[Kind]string{
	Unclassified:  "unclassified",
	TCP4:          "tcp4",
	TCP6:          "tcp6",
	UnixStream:    "unix",
	VsockStream:   "vsock",
	GenericStream: "stream",
	UDP4:          "udp4",
	UDP6:          "udp6",
	UnixDatagram:  "unixgram",
	VsockDatagram: "vsockgram",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsStream reports whether the kind is served by an accept loop.
func (k Kind) IsStream() bool {
	switch k {
	case TCP4, TCP6, UnixStream, VsockStream, GenericStream:
		return true
	}
	return false
}

// IsDatagram reports whether the kind is served by a receive loop.
func (k Kind) IsDatagram() bool {
	switch k {
	case UDP4, UDP6, UnixDatagram, VsockDatagram:
		return true
	}
	return false
}

// MarshalText renders the kind by name in JSON and TOML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
