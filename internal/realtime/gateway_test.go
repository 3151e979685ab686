package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/costaverde/reservation-gateway/internal/core/domain"
	"github.com/costaverde/reservation-gateway/internal/core/ports"
)

// handshakeCodec accepts exactly one token value and maps it to a fixed
// principal.
type handshakeCodec struct {
	token     string
	principal domain.Principal
}

func (c *handshakeCodec) Issue(domain.Principal) (string, error) {
	return "", errors.New("not implemented")
}

func (c *handshakeCodec) Verify(token string) (*ports.VerifiedToken, error) {
	if token != c.token {
		return nil, domain.ErrInvalidToken
	}
	return &ports.VerifiedToken{
		Principal: c.principal,
		TokenID:   "jti-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func newHandshakeCodec() *handshakeCodec {
	return &handshakeCodec{
		token:     "good-token",
		principal: domain.Principal{ID: 7, Email: "ana@example.com", Name: "Ana", Role: domain.RoleClient},
	}
}

func TestGateway_RejectsInvalidToken(t *testing.T) {
	registry := NewRegistry()
	gateway := NewGateway(newHandshakeCodec(), registry, zerolog.Nop())

	for _, target := range []string{"/ws", "/ws?token=wrong"} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())

		err := gateway.Handle(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			t.Fatalf("%s: expected *echo.HTTPError, got %v", target, err)
		}
		if he.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", target, he.Code)
		}
	}

	// A rejected handshake never touches the registry.
	if registry.Len() != 0 {
		t.Fatalf("rejected handshakes left %d registry entries", registry.Len())
	}
}

func TestGateway_AcceptRegistersAndWelcomes(t *testing.T) {
	registry := NewRegistry()
	gateway := NewGateway(newHandshakeCodec(), registry, zerolog.Nop())

	e := echo.New()
	e.GET("/ws", gateway.Handle)
	srv := httptest.NewServer(e)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=good-token"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	var welcome Event
	if err := wsjson.Read(ctx, conn, &welcome); err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	if welcome.Event != "welcome-message" {
		t.Fatalf("expected welcome-message, got %q", welcome.Event)
	}

	if registry.Len() != 1 {
		t.Fatalf("expected 1 live entry, got %d", registry.Len())
	}
	entry, ok := registry.FindByUserID(7)
	if !ok {
		t.Fatalf("connection not registered under the token's principal")
	}
	if entry.Principal.Email != "ana@example.com" {
		t.Fatalf("wrong principal registered: %+v", entry.Principal)
	}
}

func TestGateway_RejectedDialGetsNoUpgrade(t *testing.T) {
	registry := NewRegistry()
	gateway := NewGateway(newHandshakeCodec(), registry, zerolog.Nop())

	e := echo.New()
	e.GET("/ws", gateway.Handle)
	srv := httptest.NewServer(e)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=wrong"
	conn, resp, err := websocket.Dial(ctx, url, nil)
	if err == nil {
		conn.Close(websocket.StatusNormalClosure, "unexpected")
		t.Fatalf("dial with a bad token should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected a 401 handshake response, got %+v", resp)
	}
	if registry.Len() != 0 {
		t.Fatalf("rejected dial left %d registry entries", registry.Len())
	}
}

func TestGateway_NotifiesPriorSession(t *testing.T) {
	registry := NewRegistry()
	gateway := NewGateway(newHandshakeCodec(), registry, zerolog.Nop())

	// A session for the same user is already live.
	prior := &recordingSession{}
	registry.Register("conn-old", clientPrincipal(7), prior)

	e := echo.New()
	e.GET("/ws", gateway.Handle)
	srv := httptest.NewServer(e)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=good-token"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	var welcome Event
	if err := wsjson.Read(ctx, conn, &welcome); err != nil {
		t.Fatalf("read welcome: %v", err)
	}

	// The prior-session notification follows the welcome write on the
	// server side, so allow it a moment to land.
	deadline := time.Now().Add(3 * time.Second)
	for len(prior.sent()) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("prior session never notified")
		}
		time.Sleep(10 * time.Millisecond)
	}
	events := prior.sent()
	if events[0].Event != "session-started" {
		t.Fatalf("expected session-started, got %q", events[0].Event)
	}
}

func TestGateway_UnregistersOnDisconnect(t *testing.T) {
	registry := NewRegistry()
	gateway := NewGateway(newHandshakeCodec(), registry, zerolog.Nop())

	e := echo.New()
	e.GET("/ws", gateway.Handle)
	srv := httptest.NewServer(e)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=good-token"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	var welcome Event
	if err := wsjson.Read(ctx, conn, &welcome); err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	if registry.Len() != 1 {
		t.Fatalf("expected 1 live entry, got %d", registry.Len())
	}

	if err := conn.Close(websocket.StatusNormalClosure, "done"); err != nil {
		t.Fatalf("close: %v", err)
	}

	// The server clears the entry once its read loop observes the close.
	deadline := time.Now().Add(3 * time.Second)
	for registry.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("entry not cleared after disconnect, %d remaining", registry.Len())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
