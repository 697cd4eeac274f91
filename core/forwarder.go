package core

import "context"

// Forwarder delivers normalized operations to the data engine. Implementations
// must be safe for concurrent use; the gateway shares one instance across all
// requests.
type Forwarder interface {
	// Do transmits one operation and returns the engine's envelope. The
	// returned error distinguishes engine-reported application errors from
	// connectivity failures; see the engine package.
	Do(ctx context.Context, op *Operation) (*Result, error)

	// Ping reports whether the engine answers its health endpoint.
	Ping(ctx context.Context) error
}
