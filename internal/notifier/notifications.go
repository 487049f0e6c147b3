package notifier

import (
	"context"
	"encoding/json"

	"github.com/example/bookmyroom/internal/db"
)

type Notification struct {
	ReservationID string
	Channel       string
	Recipient     string
	Payload       map[string]any
	Status        string
}

type NotificationRepository struct {
	pool *db.Pool
}

func NewNotificationRepository(pool *db.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Insert(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO notifications (reservation_id, channel, recipient, payload, status)
		VALUES ($1, $2, $3, $4, $5)
	`, n.ReservationID, n.Channel, n.Recipient, payload, n.Status)
	return err
}
