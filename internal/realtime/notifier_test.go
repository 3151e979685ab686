package realtime

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestNotifier_PushDelivers(t *testing.T) {
	registry := NewRegistry()
	session := &recordingSession{}
	registry.Register("conn-1", clientPrincipal(7), session)

	notifier := NewNotifier(registry, zerolog.Nop())
	delivered, err := notifier.Push(context.Background(), 7, "notification", map[string]string{"mensaje": "hola"})
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if !delivered {
		t.Fatalf("expected delivery")
	}

	events := session.sent()
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if events[0].Event != "notification" {
		t.Fatalf("wrong event name: %q", events[0].Event)
	}
}

func TestNotifier_PushToOfflineUser(t *testing.T) {
	notifier := NewNotifier(NewRegistry(), zerolog.Nop())

	delivered, err := notifier.Push(context.Background(), 7, "notification", nil)
	if err != nil {
		t.Fatalf("a miss is not an error: %v", err)
	}
	if delivered {
		t.Fatalf("nothing to deliver to")
	}
}

func TestNotifier_PushSendFailure(t *testing.T) {
	registry := NewRegistry()
	registry.Register("conn-1", clientPrincipal(7), &recordingSession{err: errors.New("peer gone")})

	notifier := NewNotifier(registry, zerolog.Nop())
	delivered, err := notifier.Push(context.Background(), 7, "notification", nil)
	if err == nil {
		t.Fatalf("expected a send error")
	}
	if delivered {
		t.Fatalf("a failed send is not a delivery")
	}
}

func TestNotifier_PushTargetsMostRecentConnection(t *testing.T) {
	registry := NewRegistry()
	stale := &recordingSession{}
	live := &recordingSession{}
	registry.Register("conn-stale", clientPrincipal(7), stale)
	registry.Register("conn-live", clientPrincipal(7), live)

	notifier := NewNotifier(registry, zerolog.Nop())
	if _, err := notifier.Push(context.Background(), 7, "notification", nil); err != nil {
		t.Fatalf("push: %v", err)
	}

	if len(stale.sent()) != 0 {
		t.Fatalf("stale connection should not receive events")
	}
	if len(live.sent()) != 1 {
		t.Fatalf("live connection missed the event")
	}
}
