package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/bookmyroom/internal/availability"
	"github.com/example/bookmyroom/internal/model"
	"github.com/example/bookmyroom/internal/storage"
)

type RoomsHandler struct {
	rooms        *storage.RoomRepository
	buildings    *storage.BuildingRepository
	reservations *storage.ReservationRepository
	logger       *slog.Logger
	defaultLoc   *time.Location
}

func NewRoomsHandler(rooms *storage.RoomRepository, buildings *storage.BuildingRepository, reservations *storage.ReservationRepository, logger *slog.Logger, defaultLoc *time.Location) *RoomsHandler {
	return &RoomsHandler{
		rooms:        rooms,
		buildings:    buildings,
		reservations: reservations,
		logger:       logger,
		defaultLoc:   defaultLoc,
	}
}

type reservationItem struct {
	ReservationID string `json:"reservation_id"`
	UserID        string `json:"user_id"`
	StartAt       string `json:"start_at"`
	EndAt         string `json:"end_at"`
	LocalStart    string `json:"local_start"`
	LocalEnd      string `json:"local_end"`
}

type roomListItem struct {
	RoomID        string            `json:"room_id"`
	RoomNumber    string            `json:"room_number"`
	Capacity      int               `json:"capacity"`
	Floor         int               `json:"floor"`
	BuildingID    string            `json:"building_id"`
	Status        string            `json:"status"`
	Reservations  []reservationItem `json:"reservations"`
	SuggestedSlot string            `json:"suggested_slot,omitempty"`
}

// List reports every room's free/occupied status for a requested wall-clock
// interval. The conflict decision is made on minutes-of-day spans in the
// caller's timezone so reservations crossing midnight pair up correctly.
func (h *RoomsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	loc, err := clientLocation(q.Get("tz"), h.defaultLoc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	wall, err := availability.ParseWallClock(q.Get("localDate"), q.Get("localTime"))
	if err != nil {
		http.Error(w, "invalid localDate or localTime", http.StatusBadRequest)
		return
	}
	durationMins, err := availability.DurationMinutes(q.Get("duration"))
	if err != nil {
		http.Error(w, "unknown duration", http.StatusBadRequest)
		return
	}

	startInstant, err := availability.ToInstant(wall, loc)
	if err != nil {
		http.Error(w, "invalid local time", http.StatusBadRequest)
		return
	}
	endInstant := startInstant.Add(time.Duration(durationMins) * time.Minute)

	winStart, winEnd, err := availability.DayWindow(wall, loc)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}
	if endInstant.After(winEnd) {
		winEnd = endInstant
	}

	rooms, err := h.rooms.List(r.Context(), strings.TrimSpace(q.Get("search")))
	if err != nil {
		h.logger.Error("room list failed", "err", err)
		http.Error(w, "failed to list rooms", http.StatusInternalServerError)
		return
	}

	reservations, err := h.reservations.ListWindow(r.Context(), winStart, winEnd)
	if err != nil {
		h.logger.Error("reservation list failed", "err", err)
		http.Error(w, "failed to load reservations", http.StatusInternalServerError)
		return
	}
	byRoom := make(map[string][]model.Reservation)
	for _, res := range reservations {
		byRoom[res.RoomID] = append(byRoom[res.RoomID], res)
	}

	startMin := wall.MinutesOfDay()
	proposed := availability.Span{Start: startMin, End: availability.AddDuration(startMin, durationMins)}

	items := make([]roomListItem, 0, len(rooms))
	for _, room := range rooms {
		dayReservations := byRoom[room.ID]
		spans := spansIn(dayReservations, loc)

		item := roomListItem{
			RoomID:       room.ID,
			RoomNumber:   room.RoomNumber,
			Capacity:     room.Capacity,
			Floor:        room.Floor,
			BuildingID:   room.BuildingID,
			Status:       "free",
			Reservations: reservationItems(dayReservations, loc),
		}
		if availability.CheckConflict(spans, proposed) {
			item.Status = "occupied"
			if slot, ok := availability.FindNextFreeSlot(spans, durationMins, startMin); ok {
				item.SuggestedSlot = minutesToClock(slot)
			}
		}
		items = append(items, item)
	}

	writeJSON(w, http.StatusOK, items)
}

// Schedule returns the reservations touching one room's day, including
// ones that started the previous local day and cross midnight into it.
func (h *RoomsHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	roomID := strings.TrimSpace(q.Get("room_id"))
	if roomID == "" {
		http.Error(w, "room_id required", http.StatusBadRequest)
		return
	}
	loc, err := clientLocation(q.Get("tz"), h.defaultLoc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	wall, err := availability.ParseWallClock(q.Get("date"), "00:00")
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}
	winStart, winEnd, err := availability.DayWindow(wall, loc)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	reservations, err := h.reservations.ListForRoomWindow(r.Context(), roomID, winStart, winEnd)
	if err != nil {
		h.logger.Error("schedule load failed", "err", err, "room_id", roomID)
		http.Error(w, "failed to load schedule", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, reservationItems(reservations, loc))
}

func (h *RoomsHandler) Buildings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	buildings, err := h.buildings.List(r.Context())
	if err != nil {
		h.logger.Error("building list failed", "err", err)
		http.Error(w, "failed to list buildings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, buildings)
}

func spansIn(reservations []model.Reservation, loc *time.Location) []availability.Span {
	spans := make([]availability.Span, 0, len(reservations))
	for _, res := range reservations {
		spans = append(spans, availability.Span{
			Start: availability.FromInstant(res.StartAt, loc).MinutesOfDay(),
			End:   availability.FromInstant(res.EndAt, loc).MinutesOfDay(),
		})
	}
	return spans
}

func reservationItems(reservations []model.Reservation, loc *time.Location) []reservationItem {
	items := make([]reservationItem, 0, len(reservations))
	for _, res := range reservations {
		items = append(items, reservationItem{
			ReservationID: res.ID,
			UserID:        res.UserID,
			StartAt:       res.StartAt.UTC().Format(time.RFC3339),
			EndAt:         res.EndAt.UTC().Format(time.RFC3339),
			LocalStart:    availability.FromInstant(res.StartAt, loc).String(),
			LocalEnd:      availability.FromInstant(res.EndAt, loc).String(),
		})
	}
	return items
}
