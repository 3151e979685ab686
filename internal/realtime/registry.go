// Package realtime binds live websocket connections to the verified
// principals that opened them and pushes targeted notifications to them.
package realtime

import (
	"context"
	"sync"

	"github.com/costaverde/reservation-gateway/internal/core/domain"
)

// Event is the envelope every realtime message travels in.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Session is the write side of a live connection.
type Session interface {
	Send(ctx context.Context, event Event) error
}

// Entry binds one live connection to the principal that authenticated it.
// Entries are immutable once created: a changed role requires a new
// connection.
type Entry struct {
	ConnectionID string
	Principal    domain.Principal
	Session      Session

	// seq orders registrations so lookups by user id can prefer the most
	// recent connection.
	seq uint64
}

// Registry is the live-connection map. It is the only component that knows
// whether a user is currently reachable over the realtime channel. All
// operations are safe for concurrent use; none blocks on I/O while holding
// the lock.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	seq     uint64
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register creates the entry for a connection. Registering an id that is
// already present replaces its entry.
func (r *Registry) Register(connectionID string, principal domain.Principal, session Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.entries[connectionID] = Entry{
		ConnectionID: connectionID,
		Principal:    principal,
		Session:      session,
		seq:          r.seq,
	}
}

// Unregister removes the entry for a connection. Unregistering an absent id
// is a no-op: a disconnect after a failed handshake never created an entry.
func (r *Registry) Unregister(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, connectionID)
}

// FindByUserID returns the live entry for a user. When the same user holds
// several connections, the most recently registered one wins.
func (r *Registry) FindByUserID(userID int64) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best Entry
	var found bool
	for _, entry := range r.entries {
		if entry.Principal.ID != userID {
			continue
		}
		if !found || entry.seq > best.seq {
			best = entry
			found = true
		}
	}
	return best, found
}

// Len reports the number of live entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
