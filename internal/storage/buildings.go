package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/bookmyroom/internal/db"
	"github.com/example/bookmyroom/internal/model"
)

type BuildingRepository struct {
	pool *db.Pool
}

func NewBuildingRepository(pool *db.Pool) *BuildingRepository {
	return &BuildingRepository{pool: pool}
}

func (r *BuildingRepository) List(ctx context.Context) ([]model.Building, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, address, city
		FROM buildings
		ORDER BY address ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Building
	for rows.Next() {
		var b model.Building
		if err := rows.Scan(&b.ID, &b.Address, &b.City); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *BuildingRepository) Get(ctx context.Context, id string) (model.Building, error) {
	var b model.Building
	err := r.pool.QueryRow(ctx, `
		SELECT id, address, city
		FROM buildings
		WHERE id = $1
	`, id).Scan(&b.ID, &b.Address, &b.City)
	if err != nil {
		return model.Building{}, err
	}
	return b, nil
}

// GetByAddress resolves a building from its postal address, the key the room
// CSV format uses.
func (r *BuildingRepository) GetByAddress(ctx context.Context, address string) (model.Building, error) {
	var b model.Building
	err := r.pool.QueryRow(ctx, `
		SELECT id, address, city
		FROM buildings
		WHERE address = $1
	`, address).Scan(&b.ID, &b.Address, &b.City)
	if err != nil {
		return model.Building{}, err
	}
	return b, nil
}

func (r *BuildingRepository) Create(ctx context.Context, b model.Building) (string, error) {
	id := uuid.NewString()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO buildings (id, address, city)
		VALUES ($1, $2, $3)
		RETURNING id
	`, id, b.Address, b.City).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *BuildingRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM buildings WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
