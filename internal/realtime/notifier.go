package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// pushTimeout bounds a single notification write so a stalled peer cannot
// hold up the caller.
const pushTimeout = 5 * time.Second

// Notifier pushes targeted events to a user's live connection via the
// registry. It implements ports.Notifier.
type Notifier struct {
	registry *Registry
	logger   zerolog.Logger
}

func NewNotifier(registry *Registry, logger zerolog.Logger) *Notifier {
	return &Notifier{registry: registry, logger: logger}
}

// Push delivers an event to the user's most recent live connection. A user
// without a connection yields (false, nil).
func (n *Notifier) Push(ctx context.Context, userID int64, event string, payload any) (bool, error) {
	entry, ok := n.registry.FindByUserID(userID)
	if !ok {
		n.logger.Debug().Int64("user_id", userID).Msg("push skipped: user not connected")
		return false, nil
	}

	writeCtx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	if err := entry.Session.Send(writeCtx, Event{Event: event, Data: payload}); err != nil {
		return false, fmt.Errorf("send to connection %s: %w", entry.ConnectionID, err)
	}
	return true, nil
}
