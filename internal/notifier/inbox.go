package notifier

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/example/bookmyroom/internal/db"
)

// InboxRepository deduplicates consumed events. Record returns false when
// the event id was already seen.
type InboxRepository struct {
	pool *db.Pool
}

func NewInboxRepository(pool *db.Pool) *InboxRepository {
	return &InboxRepository{pool: pool}
}

func (r *InboxRepository) Record(ctx context.Context, eventID string, eventType string) (bool, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO inbox_events (event_id, event_type)
		VALUES ($1, $2)
	`, eventID, eventType)
	if err == nil {
		return true, nil
	}

	if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
		return false, nil
	}

	return false, err
}
