// Package activation owns the descriptors handed over by the service manager.
//
// Ownership boundary:
// - LISTEN_FDS/LISTEN_FDNAMES enumeration
// - socket family and discipline classification
//
// Classification only inspects socket options; it never reads or writes
// payload bytes and never blocks.
package activation
