package realtime

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/costaverde/reservation-gateway/internal/api/metrics"
	"github.com/costaverde/reservation-gateway/internal/core/ports"
)

// Gateway upgrades authenticated clients to websocket connections and runs
// one task per connection until it disconnects. The handshake verifies the
// bearer token before the upgrade: a rejected handshake never touches the
// registry.
type Gateway struct {
	codec    ports.TokenCodec
	registry *Registry
	logger   zerolog.Logger
}

func NewGateway(codec ports.TokenCodec, registry *Registry, logger zerolog.Logger) *Gateway {
	return &Gateway{codec: codec, registry: registry, logger: logger}
}

// wsSession adapts a websocket connection to the Session interface.
type wsSession struct {
	conn *websocket.Conn
}

func (s *wsSession) Send(ctx context.Context, event Event) error {
	return wsjson.Write(ctx, s.conn, event)
}

// Handle serves GET /ws. Browsers cannot set headers on websocket dials, so
// the token is also accepted as a query parameter.
func (g *Gateway) Handle(c echo.Context) error {
	token := bearerToken(c.Request())
	if token == "" {
		token = c.QueryParam("token")
	}

	verified, err := g.codec.Verify(token)
	if err != nil {
		metrics.ConnectionsTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	principal := verified.Principal

	conn, err := websocket.Accept(c.Response(), c.Request(), nil)
	if err != nil {
		// Accept has already written its own error response.
		metrics.ConnectionsTotal.WithLabelValues("rejected").Inc()
		return nil
	}

	connectionID := uuid.NewString()
	session := &wsSession{conn: conn}

	// Look up the previous connection before registering the new one, so a
	// reconnecting user's old session can be told it was superseded. The
	// lookup and the registration are separate registry calls, so two
	// simultaneous handshakes for one user may each miss the other; the
	// notification is best effort.
	prior, hasPrior := g.registry.FindByUserID(principal.ID)

	g.registry.Register(connectionID, principal, session)
	metrics.ConnectionsTotal.WithLabelValues("accepted").Inc()
	metrics.ConnectionsActive.Inc()

	// Disconnection, for whatever reason, must always clear the entry.
	defer func() {
		g.registry.Unregister(connectionID)
		metrics.ConnectionsActive.Dec()
		_ = conn.Close(websocket.StatusNormalClosure, "closed")
		g.logger.Info().
			Str("connection_id", connectionID).
			Int64("user_id", principal.ID).
			Msg("realtime connection closed")
	}()

	g.logger.Info().
		Str("connection_id", connectionID).
		Int64("user_id", principal.ID).
		Str("role", string(principal.Role)).
		Msg("realtime connection established")

	ctx := c.Request().Context()

	if err := session.Send(ctx, Event{
		Event: "welcome-message",
		Data:  fmt.Sprintf("welcome, you are connected as %s", principal.Name),
	}); err != nil {
		return nil
	}

	if hasPrior && prior.ConnectionID != connectionID {
		_ = prior.Session.Send(ctx, Event{
			Event: "session-started",
			Data:  fmt.Sprintf("user %s established a new session", principal.Name),
		})
	}

	// Block until the peer goes away. Inbound frames are drained and
	// discarded: this channel only pushes server-to-client events.
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return nil
		}
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
