package activation

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/sockecho/internal/testutil/testlog"
)

func TestClassifySocketMatchOrder(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		sock Socket
		want Kind
	}{
		{"unix listening", Socket{Family: FamilyUnix, Type: TypeStream, Listening: true}, UnixStream},
		{"vsock listening", Socket{Family: FamilyVsock, Type: TypeStream, Listening: true}, VsockStream},
		{"inet listening", Socket{Family: FamilyInet, Type: TypeStream, Listening: true}, TCP4},
		{"inet6 listening", Socket{Family: FamilyInet6, Type: TypeStream, Listening: true}, TCP6},
		{"other listening", Socket{Family: FamilyOther, Type: TypeStream, Listening: true}, GenericStream},
		{"connected stream", Socket{Family: FamilyInet, Type: TypeStream}, Unclassified},
		{"unix datagram", Socket{Family: FamilyUnix, Type: TypeDatagram}, UnixDatagram},
		{"vsock datagram", Socket{Family: FamilyVsock, Type: TypeDatagram}, VsockDatagram},
		{"inet datagram", Socket{Family: FamilyInet, Type: TypeDatagram}, UDP4},
		{"inet6 datagram", Socket{Family: FamilyInet6, Type: TypeDatagram}, UDP6},
		{"other datagram", Socket{Family: FamilyOther, Type: TypeDatagram}, Unclassified},
		{"seqpacket", Socket{Family: FamilyUnix, Type: TypeOther, Listening: true}, Unclassified},
	}
	for _, tc := range cases {
		if got := ClassifySocket(tc.sock); got != tc.want {
			t.Fatalf("%s: got=%s want=%s", tc.name, got, tc.want)
		}
	}
}

func TestClassifyInheritedSockets(t *testing.T) {
	testlog.Start(t)

	tcp, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen tcp4: %v", err)
	}
	defer tcp.Close()
	expectKind(t, fileOf(t, tcp.(*net.TCPListener)), TCP4)

	udp, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen udp4: %v", err)
	}
	defer udp.Close()
	expectKind(t, fileOf(t, udp.(*net.UDPConn)), UDP4)

	dir := shortTempDir(t)
	ustream, err := net.Listen("unix", filepath.Join(dir, "s.sock"))
	if err != nil {
		t.Fatalf("listen unix: %v", err)
	}
	defer ustream.Close()
	expectKind(t, fileOf(t, ustream.(*net.UnixListener)), UnixStream)

	ugram, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: filepath.Join(dir, "d.sock"), Net: "unixgram"})
	if err != nil {
		t.Fatalf("listen unixgram: %v", err)
	}
	defer ugram.Close()
	expectKind(t, fileOf(t, ugram), UnixDatagram)
}

func TestClassifyInet6WhenAvailable(t *testing.T) {
	testlog.Start(t)
	tcp, err := net.Listen("tcp6", "[::1]:0")
	if err != nil {
		t.Skipf("ipv6 loopback unavailable: %v", err)
	}
	defer tcp.Close()
	expectKind(t, fileOf(t, tcp.(*net.TCPListener)), TCP6)

	udp, err := net.ListenPacket("udp6", "[::1]:0")
	if err != nil {
		t.Skipf("ipv6 udp unavailable: %v", err)
	}
	defer udp.Close()
	expectKind(t, fileOf(t, udp.(*net.UDPConn)), UDP6)
}

func TestClassifyIgnoresUnservedDescriptors(t *testing.T) {
	testlog.Start(t)

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()
	if got := Classify(int(r.Fd())); got != Unclassified {
		t.Fatalf("pipe classified as %s", got)
	}

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	conn, err := net.Dial("tcp4", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	expectKind(t, fileOf(t, conn.(*net.TCPConn)), Unclassified)
}

type filer interface {
	File() (*os.File, error)
}

func fileOf(t *testing.T, c filer) *os.File {
	t.Helper()
	f, err := c.File()
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func expectKind(t *testing.T, f *os.File, want Kind) {
	t.Helper()
	if got := Classify(int(f.Fd())); got != want {
		t.Fatalf("classify %s: got=%s want=%s", f.Name(), got, want)
	}
}

// unix socket paths are limited to ~104 bytes; t.TempDir can exceed that.
func shortTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "sockecho")
	if err != nil {
		t.Fatalf("mkdir temp: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return dir
}
