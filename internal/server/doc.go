// Package server owns the process lifecycle of the echo server.
//
// Ownership boundary:
// - takes the inherited descriptors and dispatches one unit per servable socket
// - reports readiness and shutdown to the service manager
// - serves the optional admin HTTP surface
//
// Echo behavior itself lives in package echo.
package server
