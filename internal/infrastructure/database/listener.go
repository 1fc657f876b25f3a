package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"todoboard/internal/log"
	"todoboard/internal/ports/output"
)

// ChannelTodosChanged is the NOTIFY channel fired by the todos trigger.
const ChannelTodosChanged = "todos_changed"

var _ output.ChangeFeed = (*Listener)(nil)

// Listener turns Postgres NOTIFY messages on ChannelTodosChanged into change
// callbacks. A dropped connection is re-acquired after RetryDelay.
type Listener struct {
	pool       *pgxpool.Pool
	RetryDelay time.Duration
}

// NewListener creates a Listener on pool.
func NewListener(pool *pgxpool.Pool) *Listener {
	return &Listener{pool: pool, RetryDelay: 2 * time.Second}
}

// Listen blocks until ctx is done.
func (l *Listener) Listen(ctx context.Context, onChange func()) error {
	for {
		err := l.listenOnce(ctx, onChange)
		if ctx.Err() != nil {
			return nil
		}
		log.Warn().Err(err).Dur("retry_in", l.RetryDelay).Msg("todos listener stopped")
		select {
		case <-time.After(l.RetryDelay):
		case <-ctx.Done():
			return nil
		}
		// Anything may have changed while we were disconnected.
		onChange()
	}
}

func (l *Listener) listenOnce(ctx context.Context, onChange func()) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen conn: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+ChannelTodosChanged); err != nil {
		return fmt.Errorf("listen %s: %w", ChannelTodosChanged, err)
	}
	log.Info().Str("channel", ChannelTodosChanged).Msg("listening for todo changes")

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("wait for notification: %w", err)
		}
		log.Debug().Str("channel", n.Channel).Str("payload", n.Payload).Msg("todo change notified")
		onChange()
	}
}
