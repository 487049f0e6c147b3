package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/example/bookmyroom/internal/db"
	"github.com/example/bookmyroom/internal/model"
)

type ReservationRepository struct {
	pool *db.Pool
}

func NewReservationRepository(pool *db.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// Create inserts within tx so the room's range-exclusion constraint and the
// outbox write commit together. A 23P01 from this insert means a concurrent
// booking took the interval after our pre-check; callers map it to the same
// conflict outcome.
func (r *ReservationRepository) Create(ctx context.Context, tx pgx.Tx, res *model.Reservation) (string, error) {
	id := uuid.NewString()
	err := tx.QueryRow(ctx, `
		INSERT INTO reservations (id, room_id, user_id, start_at, end_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, id, res.RoomID, res.UserID, res.StartAt, res.EndAt).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *ReservationRepository) Get(ctx context.Context, id string) (model.Reservation, error) {
	var res model.Reservation
	err := r.pool.QueryRow(ctx, `
		SELECT id, room_id, user_id, start_at, end_at, created_at
		FROM reservations
		WHERE id = $1
	`, id).Scan(&res.ID, &res.RoomID, &res.UserID, &res.StartAt, &res.EndAt, &res.CreatedAt)
	if err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteTx deletes within a caller transaction so the cancellation event
// commits atomically with the row removal.
func (r *ReservationRepository) DeleteTx(ctx context.Context, tx pgx.Tx, id string) (bool, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListForRoomWindow returns reservations for one room whose [start_at,
// end_at) intersects [start, end). Callers widen the window past both
// midnights so crossings from the neighbor days enter the candidate set.
func (r *ReservationRepository) ListForRoomWindow(ctx context.Context, roomID string, start, end time.Time) ([]model.Reservation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, room_id, user_id, start_at, end_at, created_at
		FROM reservations
		WHERE room_id = $1
			AND start_at < $3
			AND end_at > $2
		ORDER BY start_at ASC
	`, roomID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

// ListWindow returns every reservation intersecting [start, end) across all
// rooms, for the room listing's status computation in one round trip.
func (r *ReservationRepository) ListWindow(ctx context.Context, start, end time.Time) ([]model.Reservation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, room_id, user_id, start_at, end_at, created_at
		FROM reservations
		WHERE start_at < $2
			AND end_at > $1
		ORDER BY room_id, start_at ASC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

func scanReservations(rows pgx.Rows) ([]model.Reservation, error) {
	var out []model.Reservation
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.RoomID, &res.UserID, &res.StartAt, &res.EndAt, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}
