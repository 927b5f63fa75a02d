package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/hireline/timeline/internal/dbpool"
)

// validChannel matches safe PostgreSQL LISTEN channel names.
var validChannel = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

const (
	initialBackoff    = 1 * time.Second
	maxBackoff        = 30 * time.Second
	backoffMultiplier = 2
	readDeadline      = 2 * time.Minute
)

// ChangeListener subscribes to a PostgreSQL NOTIFY channel fed by triggers
// on the ATS tables and rebuilds the whole timeline when records change.
// Notifications that arrive while a rebuild is running collapse into one
// follow-up rebuild.
type ChangeListener struct {
	log       *logrus.Logger
	pool      *dbpool.Pool
	refresher Refresher
	channel   string
	pending   chan struct{}
}

// NewChangeListener creates a ChangeListener for the given channel.
func NewChangeListener(log *logrus.Logger, pool *dbpool.Pool, refresher Refresher, channel string) *ChangeListener {
	return &ChangeListener{
		log:       log,
		pool:      pool,
		refresher: refresher,
		channel:   channel,
		pending:   make(chan struct{}, 1),
	}
}

// Start verifies the channel name and database, then launches the LISTEN
// loop and the refresh worker in background goroutines. The LISTEN loop
// reconnects with jittered exponential backoff until ctx is cancelled.
func (l *ChangeListener) Start(ctx context.Context) error {
	if !validChannel.MatchString(l.channel) {
		return fmt.Errorf("change listener: invalid channel name %q", l.channel)
	}

	if err := l.pool.Ping(ctx); err != nil {
		return fmt.Errorf("change listener: database not reachable: %w", err)
	}

	go l.listen(ctx)
	go l.work(ctx)

	return nil
}

func (l *ChangeListener) listen(ctx context.Context) {
	backoff := initialBackoff

	for {
		if ctx.Err() != nil {
			return
		}

		err := l.subscribe(ctx)
		if err == nil || ctx.Err() != nil {
			return
		}

		l.log.WithError(err).WithField("retry_in", backoff).
			Warn("change listener connection lost, reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff = nextBackoff(backoff)

		// Changes may have been missed while disconnected.
		l.signal()
	}
}

// subscribe acquires a connection, issues LISTEN, and blocks on
// notifications until the connection fails or the context is cancelled.
func (l *ChangeListener) subscribe(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("executing LISTEN: %w", err)
	}

	l.log.WithField("channel", l.channel).Info("change listener listening")

	for {
		if err := conn.Conn().PgConn().Conn().SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
			return fmt.Errorf("setting read deadline: %w", err)
		}

		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}

			return fmt.Errorf("waiting for notification: %w", err)
		}

		l.handleNotification(n)
	}
}

// handleNotification schedules a rebuild. Payloads are informational only.
func (l *ChangeListener) handleNotification(n *pgconn.Notification) {
	l.log.WithFields(logrus.Fields{
		"channel": n.Channel,
		"pid":     n.PID,
		"payload": n.Payload,
	}).Debug("change notification received")

	l.signal()
}

func (l *ChangeListener) signal() {
	select {
	case l.pending <- struct{}{}:
	default:
	}
}

// work runs one rebuild per pending signal until ctx is cancelled.
func (l *ChangeListener) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.pending:
			if _, err := l.refresher.Refresh(ctx, TriggerNotify); err != nil && ctx.Err() == nil {
				l.log.WithError(err).Debug("change-triggered refresh failed")
			}
		}
	}
}

// nextBackoff doubles the current backoff duration with random jitter (±25%),
// capped at maxBackoff.
func nextBackoff(current time.Duration) time.Duration {
	next := current * backoffMultiplier
	if next > maxBackoff {
		next = maxBackoff
	}

	jitter := float64(next) * (0.75 + rand.Float64()*0.5) //nolint:gosec // jitter doesn't need crypto rand.

	return time.Duration(jitter)
}
