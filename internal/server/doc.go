// Package server runs the oni-auth HTTP transport.
//
// It owns the listener lifecycle: startup, signal handling and a bounded
// graceful shutdown that lets in-flight requests finish.
package server
