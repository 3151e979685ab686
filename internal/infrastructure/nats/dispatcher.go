package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/costaverde/reservation-gateway/internal/api/metrics"
	"github.com/costaverde/reservation-gateway/internal/core/domain"
)

// defaultRequestTimeout is the deadline imposed on a backend request when
// the config does not override it.
const defaultRequestTimeout = 50 * time.Second

// Dispatcher forwards domain commands to backend services over NATS
// request/reply. One command maps to one subject: <prefix>.<command>.
type Dispatcher struct {
	nc      *nats.Conn
	prefix  string
	timeout time.Duration
	logger  zerolog.Logger
}

func NewDispatcher(nc *nats.Conn, cfg Config, logger zerolog.Logger) *Dispatcher {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Dispatcher{nc: nc, prefix: cfg.SubjectPrefix, timeout: timeout, logger: logger}
}

// Send dispatches a command and waits for the reply. A deadline hit (from
// the request timeout or the caller's context) surfaces as
// domain.ErrUpstreamTimeout, never as a hang.
func (d *Dispatcher) Send(ctx context.Context, command string, payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", command, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	msg, err := d.nc.RequestWithContext(reqCtx, d.subject(command), data)
	metrics.DispatchDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())

	if err != nil {
		if isTimeout(err) {
			metrics.DispatchErrorsTotal.WithLabelValues(command, "timeout").Inc()
			d.logger.Error().Str("command", command).Dur("elapsed", time.Since(start)).Msg("backend dispatch timed out")
			return nil, domain.ErrUpstreamTimeout
		}
		metrics.DispatchErrorsTotal.WithLabelValues(command, "error").Inc()
		return nil, fmt.Errorf("dispatch %s: %w", command, err)
	}

	return msg.Data, nil
}

// Emit publishes a command without waiting for a reply.
func (d *Dispatcher) Emit(ctx context.Context, command string, payload any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("emit %s: %w", command, err)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", command, err)
	}
	if err := d.nc.Publish(d.subject(command), data); err != nil {
		return fmt.Errorf("emit %s: %w", command, err)
	}
	return nil
}

func (d *Dispatcher) subject(command string) string {
	if d.prefix == "" {
		return command
	}
	return d.prefix + "." + command
}

// isTimeout classifies transport errors that mean "no reply within the
// deadline", including the no-responders fast path.
func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, nats.ErrNoResponders)
}
