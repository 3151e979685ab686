package ports

import (
	"context"
	"encoding/json"
)

// BackendDispatcher forwards domain commands to backend microservices over a
// synchronous request/reply transport.
type BackendDispatcher interface {
	// Send dispatches a command and waits for the reply, subject to the
	// context deadline and the transport's own request timeout. A deadline
	// hit surfaces as domain.ErrUpstreamTimeout.
	Send(ctx context.Context, command string, payload any) (json.RawMessage, error)

	// Emit publishes a command without waiting for a reply.
	Emit(ctx context.Context, command string, payload any) error
}
