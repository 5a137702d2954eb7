package activation

import (
	"errors"
	"os"
	"strconv"

	sdactivation "github.com/coreos/go-systemd/v22/activation"
)

// ListenFDsStart is the first descriptor number used by socket activation.
const ListenFDsStart = 3

var ErrNoDescriptors = errors.New(
	"activation: this program needs to be started by a systemd service or by systemd-socket-activate (LISTEN_FDS is not correctly set)",
)

// Descriptor is one socket inherited from the service manager.
type Descriptor struct {
	// Index is the ordinal position in the inherited set.
	Index int
	FD    int
	// Name is empty when the manager supplied no name for this position.
	Name string
	File *os.File
}

// Close releases the inherited descriptor.
func (d Descriptor) Close() error {
	if d.File == nil {
		return nil
	}
	return d.File.Close()
}

// Label returns the descriptor name, or its fd number when unnamed.
func (d Descriptor) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return "fd" + strconv.Itoa(d.FD)
}

var listenFiles = sdactivation.Files

// Inherited returns the descriptors passed through LISTEN_FDS, in the order
// the manager assigned them. unsetEnv clears the activation variables so
// child processes do not inherit them.
func Inherited(unsetEnv bool) ([]Descriptor, error) {
	files := listenFiles(unsetEnv)
	if len(files) < 1 {
		return nil, ErrNoDescriptors
	}
	return FromFiles(files), nil
}

// FromFiles wraps already-open files as inherited descriptors.
func FromFiles(files []*os.File) []Descriptor {
	out := make([]Descriptor, 0, len(files))
	for i, f := range files {
		if f == nil {
			continue
		}
		fd := int(f.Fd())
		out = append(out, Descriptor{
			Index: i,
			FD:    fd,
			Name:  normalizeName(fd, f.Name()),
			File:  f,
		})
	}
	return out
}

// go-systemd substitutes LISTEN_FD_<n> for positions without a name.
func normalizeName(fd int, name string) string {
	if name == "LISTEN_FD_"+strconv.Itoa(fd) {
		return ""
	}
	return name
}
