package outbox

import (
	"encoding/json"
	"time"

	"github.com/example/bookmyroom/internal/model"
)

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType (event per topic).
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

const (
	TopicReservationCreated   = "booking.reservation.created.v1"
	TopicReservationCancelled = "booking.reservation.cancelled.v1"
)

// ReservationEvent is the payload for both reservation topics.
type ReservationEvent struct {
	ReservationID string    `json:"reservation_id"`
	RoomID        string    `json:"room_id"`
	UserID        string    `json:"user_id"`
	StartAt       time.Time `json:"start_at"`
	EndAt         time.Time `json:"end_at"`
}

func ReservationCreated(res model.Reservation) (Event, error) {
	return reservationEvent(TopicReservationCreated, res)
}

func ReservationCancelled(res model.Reservation) (Event, error) {
	return reservationEvent(TopicReservationCancelled, res)
}

func reservationEvent(eventType string, res model.Reservation) (Event, error) {
	payload, err := json.Marshal(ReservationEvent{
		ReservationID: res.ID,
		RoomID:        res.RoomID,
		UserID:        res.UserID,
		StartAt:       res.StartAt,
		EndAt:         res.EndAt,
	})
	if err != nil {
		return Event{}, err
	}
	return Event{
		AggregateType: "reservation",
		AggregateID:   res.ID,
		EventType:     eventType,
		Payload:       payload,
	}, nil
}
