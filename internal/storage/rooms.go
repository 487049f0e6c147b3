package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/bookmyroom/internal/db"
	"github.com/example/bookmyroom/internal/model"
)

type RoomRepository struct {
	pool *db.Pool
}

func NewRoomRepository(pool *db.Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

// List returns rooms ordered by number, optionally filtered by a substring
// match on the room number.
func (r *RoomRepository) List(ctx context.Context, search string) ([]model.Room, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, room_number, capacity, floor, building_id
		FROM rooms
		WHERE $1 = '' OR room_number ILIKE '%' || $1 || '%'
		ORDER BY room_number ASC
	`, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Room
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.RoomNumber, &rm.Capacity, &rm.Floor, &rm.BuildingID); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *RoomRepository) Get(ctx context.Context, id string) (model.Room, error) {
	var rm model.Room
	err := r.pool.QueryRow(ctx, `
		SELECT id, room_number, capacity, floor, building_id
		FROM rooms
		WHERE id = $1
	`, id).Scan(&rm.ID, &rm.RoomNumber, &rm.Capacity, &rm.Floor, &rm.BuildingID)
	if err != nil {
		return model.Room{}, err
	}
	return rm, nil
}

func (r *RoomRepository) Create(ctx context.Context, rm model.Room) (string, error) {
	id := uuid.NewString()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO rooms (id, room_number, capacity, floor, building_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, id, rm.RoomNumber, rm.Capacity, rm.Floor, rm.BuildingID).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes the room; reservations go with it via ON DELETE CASCADE.
func (r *RoomRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
