package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/bookmyroom/internal/auth"
	"github.com/example/bookmyroom/internal/availability"
	"github.com/example/bookmyroom/internal/db"
	"github.com/example/bookmyroom/internal/model"
	"github.com/example/bookmyroom/internal/outbox"
	"github.com/example/bookmyroom/internal/storage"
)

type BookingHandler struct {
	reservations *storage.ReservationRepository
	rooms        *storage.RoomRepository
	outboxRepo   *outbox.Repository
	logger       *slog.Logger
	defaultLoc   *time.Location
	now          func() time.Time
}

func NewBookingHandler(reservations *storage.ReservationRepository, rooms *storage.RoomRepository, outboxRepo *outbox.Repository, logger *slog.Logger, defaultLoc *time.Location) *BookingHandler {
	return &BookingHandler{
		reservations: reservations,
		rooms:        rooms,
		outboxRepo:   outboxRepo,
		logger:       logger,
		defaultLoc:   defaultLoc,
		now:          time.Now,
	}
}

type bookRoomRequest struct {
	RoomID    string `json:"room_id"`
	LocalDate string `json:"local_date"`
	StartTime string `json:"start_time"`
	Duration  string `json:"duration"`
	Timezone  string `json:"timezone"`
}

type bookRoomResponse struct {
	ReservationID string `json:"reservation_id"`
	StartAt       string `json:"start_at"`
	EndAt         string `json:"end_at"`
}

// Book creates a reservation. The wall-clock request is resolved to
// instants in the caller's zone, pre-checked against the room's existing
// reservations, then inserted under the range exclusion constraint. A
// constraint violation gets the same 409 as a pre-check hit, so the losing
// side of a race is indistinguishable from an ordinary conflict.
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok || !ident.Role.CanBook() {
		http.Error(w, "booking requires the employee or admin role", http.StatusForbidden)
		return
	}

	var req bookRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.RoomID = strings.TrimSpace(req.RoomID)
	if req.RoomID == "" {
		http.Error(w, "room_id required", http.StatusBadRequest)
		return
	}

	loc, err := clientLocation(req.Timezone, h.defaultLoc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	wall, err := availability.ParseWallClock(req.LocalDate, req.StartTime)
	if err != nil {
		http.Error(w, "invalid local_date or start_time", http.StatusBadRequest)
		return
	}
	durationMins, err := availability.DurationMinutes(req.Duration)
	if err != nil {
		http.Error(w, "unknown duration", http.StatusBadRequest)
		return
	}
	startAt, err := availability.ToInstant(wall, loc)
	if err != nil {
		http.Error(w, "invalid local time", http.StatusBadRequest)
		return
	}
	endAt := startAt.Add(time.Duration(durationMins) * time.Minute)

	if startAt.Before(h.now()) {
		http.Error(w, "start time is in the past", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if _, err := h.rooms.Get(ctx, req.RoomID); err != nil {
		if db.IsNotFound(err) {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load room", http.StatusInternalServerError)
		return
	}

	existing, err := h.reservations.ListForRoomWindow(ctx, req.RoomID, startAt, endAt)
	if err != nil {
		h.logger.Error("conflict pre-check failed", "err", err, "room_id", req.RoomID)
		http.Error(w, "failed to check availability", http.StatusInternalServerError)
		return
	}
	busy := make([]availability.Interval, 0, len(existing))
	for _, res := range existing {
		busy = append(busy, availability.Interval{Start: res.StartAt, End: res.EndAt})
	}
	if availability.OverlapsAny(startAt, endAt, busy) {
		http.Error(w, "room is already reserved for that time", http.StatusConflict)
		return
	}

	tx, err := h.reservations.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res := &model.Reservation{
		RoomID:  req.RoomID,
		UserID:  ident.UserID,
		StartAt: startAt,
		EndAt:   endAt,
	}
	id, err := h.reservations.Create(ctx, tx, res)
	if err != nil {
		if db.IsExclusionViolation(err) {
			http.Error(w, "room is already reserved for that time", http.StatusConflict)
			return
		}
		h.logger.Error("reservation insert failed", "err", err, "room_id", req.RoomID)
		http.Error(w, "failed to create reservation", http.StatusInternalServerError)
		return
	}
	res.ID = id

	evt, err := outbox.ReservationCreated(*res)
	if err != nil {
		http.Error(w, "failed to build event payload", http.StatusInternalServerError)
		return
	}
	if err := h.outboxRepo.Insert(ctx, tx, evt); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		if db.IsExclusionViolation(err) {
			http.Error(w, "room is already reserved for that time", http.StatusConflict)
			return
		}
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, bookRoomResponse{
		ReservationID: id,
		StartAt:       startAt.UTC().Format(time.RFC3339),
		EndAt:         endAt.UTC().Format(time.RFC3339),
	})
}

// Cancel deletes a reservation. Owners cancel their own; admins cancel any.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := pathID(r, "/api/cancel-reservation/")
	if id == "" {
		http.Error(w, "reservation id required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	res, err := h.reservations.Get(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			http.Error(w, "reservation not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load reservation", http.StatusInternalServerError)
		return
	}
	if res.UserID != ident.UserID && ident.Role != model.RoleAdmin {
		http.Error(w, "not your reservation", http.StatusForbidden)
		return
	}

	tx, err := h.reservations.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	deleted, err := h.reservations.DeleteTx(ctx, tx, id)
	if err != nil {
		http.Error(w, "failed to cancel reservation", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "reservation not found", http.StatusNotFound)
		return
	}

	evt, err := outbox.ReservationCancelled(res)
	if err != nil {
		http.Error(w, "failed to build event payload", http.StatusInternalServerError)
		return
	}
	if err := h.outboxRepo.Insert(ctx, tx, evt); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reservation_id": id, "status": "cancelled"})
}
