package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/costaverde/reservation-gateway/internal/core/domain"
	"github.com/costaverde/reservation-gateway/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID    map[int64]*domain.User
	nextID  int64
	listErr error // if set, List returns this error

	lastListQuery ports.ListQuery
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[int64]*domain.User)}
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	clone := *user
	clone.ID = r.nextID
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.byID[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	r.byID[user.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, *u)
	}
	return users, nil
}

func (r *stubUserRepo) List(_ context.Context, query ports.ListQuery) ([]domain.User, int64, error) {
	r.lastListQuery = query
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	all, _ := r.FindAll(context.Background())
	total := int64(len(all))
	start := (query.Page - 1) * query.Take
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + query.Take
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// ---------------------------------------------------------------------------
// Stub token codec and revocation list
// ---------------------------------------------------------------------------

type stubCodec struct {
	issued   []domain.Principal
	issueErr error
}

func (c *stubCodec) Issue(principal domain.Principal) (string, error) {
	if c.issueErr != nil {
		return "", c.issueErr
	}
	c.issued = append(c.issued, principal)
	return "token-for-" + principal.Email, nil
}

func (c *stubCodec) Verify(string) (*ports.VerifiedToken, error) {
	return nil, domain.ErrInvalidToken
}

type stubRevocationList struct {
	revoked map[string]time.Time
}

func newStubRevocationList() *stubRevocationList {
	return &stubRevocationList{revoked: make(map[string]time.Time)}
}

func (l *stubRevocationList) Revoke(_ context.Context, tokenID string, until time.Time) error {
	l.revoked[tokenID] = until
	return nil
}

func (l *stubRevocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := l.revoked[tokenID]
	return ok, nil
}

// ---------------------------------------------------------------------------
// Stub backend dispatcher and notifier
// ---------------------------------------------------------------------------

type emittedCommand struct {
	command string
	payload any
}

type stubDispatcher struct {
	emitted []emittedCommand
	emitErr error
}

func (d *stubDispatcher) Send(_ context.Context, command string, _ any) (json.RawMessage, error) {
	return json.RawMessage(`{"cmd":"` + command + `"}`), nil
}

func (d *stubDispatcher) Emit(_ context.Context, command string, payload any) error {
	if d.emitErr != nil {
		return d.emitErr
	}
	d.emitted = append(d.emitted, emittedCommand{command: command, payload: payload})
	return nil
}

type stubNotifier struct {
	delivered bool
	pushErr   error

	lastUserID  int64
	lastEvent   string
	lastPayload any
}

func (n *stubNotifier) Push(_ context.Context, userID int64, event string, payload any) (bool, error) {
	n.lastUserID = userID
	n.lastEvent = event
	n.lastPayload = payload
	if n.pushErr != nil {
		return false, n.pushErr
	}
	return n.delivered, nil
}
