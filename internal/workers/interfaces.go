// Package workers starts and stops the background loops of the server,
// currently the outbound mail dispatcher.
package workers

import "context"

// Worker is a background loop owned by the server process.
//
// Run starts the worker's goroutines and returns immediately; they exit once
// ctx is cancelled. Wait blocks until they have, so queued work is drained
// before the process exits.
type Worker interface {
	Run(ctx context.Context)
	Wait()
}
