// Package echo owns the per-transport echo state machines.
//
// Ownership boundary:
// - stream accept loop and per-connection read/write loop
// - datagram receive/send loop
// - debug trace points and echo metrics
//
// Every unit stops when its context is cancelled; cancellation closes the
// unit's descriptor so the blocked accept, read or receive returns.
package echo

// BufferSize is the per-session transfer buffer length.
const BufferSize = 1024
