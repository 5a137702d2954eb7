package activation

import (
	"errors"
	"os"
	"testing"

	"github.com/danmuck/sockecho/internal/testutil/testlog"
	"golang.org/x/sys/unix"
)

func TestInheritedRequiresAtLeastOneDescriptor(t *testing.T) {
	testlog.Start(t)
	restore := listenFiles
	defer func() { listenFiles = restore }()

	listenFiles = func(bool) []*os.File { return nil }
	if _, err := Inherited(false); !errors.Is(err, ErrNoDescriptors) {
		t.Fatalf("expected ErrNoDescriptors, got %v", err)
	}
}

func TestInheritedWithoutActivationEnvironment(t *testing.T) {
	testlog.Start(t)
	t.Setenv("LISTEN_PID", "1")
	t.Setenv("LISTEN_FDS", "2")
	// LISTEN_PID names another process, so nothing is inherited.
	if _, err := Inherited(false); !errors.Is(err, ErrNoDescriptors) {
		t.Fatalf("expected ErrNoDescriptors, got %v", err)
	}
}

func TestFromFilesKeepsOrderAndNames(t *testing.T) {
	testlog.Start(t)
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	fd, err := unix.Dup(int(r.Fd()))
	if err != nil {
		t.Fatalf("dup: %v", err)
	}
	named := os.NewFile(uintptr(fd), "echo-tcp")
	defer named.Close()

	got := FromFiles([]*os.File{named, nil})
	if len(got) != 1 {
		t.Fatalf("expected 1 descriptor, got %d", len(got))
	}
	if got[0].Index != 0 || got[0].Name != "echo-tcp" || got[0].FD != fd {
		t.Fatalf("unexpected descriptor: %+v", got[0])
	}
	if got[0].Label() != "echo-tcp" {
		t.Fatalf("unexpected label %q", got[0].Label())
	}
}

func TestNormalizeNameDropsPlaceholder(t *testing.T) {
	testlog.Start(t)
	if got := normalizeName(4, "LISTEN_FD_4"); got != "" {
		t.Fatalf("placeholder kept: %q", got)
	}
	if got := normalizeName(4, "LISTEN_FD_5"); got != "LISTEN_FD_5" {
		t.Fatalf("explicit name dropped: %q", got)
	}
	if got := normalizeName(3, "udp-echo"); got != "udp-echo" {
		t.Fatalf("name changed: %q", got)
	}
	d := Descriptor{FD: 7}
	if d.Label() != "fd7" {
		t.Fatalf("unnamed label %q", d.Label())
	}
}
