package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/example/bookmyroom/internal/outbox"
	"github.com/example/bookmyroom/internal/storage"
)

// Notifier turns reservation events into confirmation emails. Failures to
// send are recorded but not retried; the inbox row already marks the event
// as handled.
type Notifier struct {
	users   *storage.UserRepository
	rooms   *storage.RoomRepository
	records *NotificationRepository
	sender  Sender
	logger  *slog.Logger
	display *time.Location
}

func New(users *storage.UserRepository, rooms *storage.RoomRepository, records *NotificationRepository, sender Sender, logger *slog.Logger, display *time.Location) *Notifier {
	if display == nil {
		display = time.UTC
	}
	return &Notifier{
		users:   users,
		rooms:   rooms,
		records: records,
		sender:  sender,
		logger:  logger,
		display: display,
	}
}

func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	var evt outbox.ReservationEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return fmt.Errorf("decode %s: %w", msg.Topic, err)
	}

	user, err := n.users.Get(ctx, evt.UserID)
	if err != nil {
		return fmt.Errorf("load user %s: %w", evt.UserID, err)
	}
	room, err := n.rooms.Get(ctx, evt.RoomID)
	if err != nil {
		return fmt.Errorf("load room %s: %w", evt.RoomID, err)
	}

	subject, body := n.compose(msg.Topic, user.Name, room.RoomNumber, evt)

	status := "sent"
	if err := n.sender.Send(user.Email, subject, body); err != nil {
		n.logger.Error("email send failed", "err", err, "reservation_id", evt.ReservationID)
		status = "failed"
	}

	return n.records.Insert(ctx, Notification{
		ReservationID: evt.ReservationID,
		Channel:       "email",
		Recipient:     user.Email,
		Payload: map[string]any{
			"event_type": msg.Topic,
			"room":       room.RoomNumber,
			"start_at":   evt.StartAt,
			"end_at":     evt.EndAt,
		},
		Status: status,
	})
}

func (n *Notifier) compose(topic, userName, roomNumber string, evt outbox.ReservationEvent) (string, string) {
	start := evt.StartAt.In(n.display)
	end := evt.EndAt.In(n.display)
	when := fmt.Sprintf("%s to %s", start.Format("Mon, 2 Jan 2006 15:04"), end.Format("15:04 MST"))

	if topic == outbox.TopicReservationCancelled {
		return fmt.Sprintf("Reservation cancelled: room %s", roomNumber),
			fmt.Sprintf("Hi %s,\n\nYour reservation of room %s from %s has been cancelled.\n", userName, roomNumber, when)
	}
	return fmt.Sprintf("Reservation confirmed: room %s", roomNumber),
		fmt.Sprintf("Hi %s,\n\nRoom %s is booked for you from %s.\n", userName, roomNumber, when)
}
