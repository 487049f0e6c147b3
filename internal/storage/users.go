package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/bookmyroom/internal/db"
	"github.com/example/bookmyroom/internal/model"
)

type UserRepository struct {
	pool *db.Pool
}

func NewUserRepository(pool *db.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, role, building_id, github_login, created_at
		FROM users
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.BuildingID, &u.GitHubLogin, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (model.User, error) {
	return r.one(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.one(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) one(ctx context.Context, where string, arg any) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, role, building_id, github_login, created_at
		FROM users
	`+where, arg).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.BuildingID, &u.GitHubLogin, &u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

// UpsertOAuth creates the user on first GitHub login with the viewer role,
// or refreshes the GitHub login name on a returning one. Role and name are
// left alone on conflict: those belong to the admin and the user.
func (r *UserRepository) UpsertOAuth(ctx context.Context, name, email, githubLogin string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, role, github_login)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET github_login = EXCLUDED.github_login
		RETURNING id, name, email, role, building_id, github_login, created_at
	`, uuid.NewString(), name, email, model.RoleViewer, githubLogin).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.BuildingID, &u.GitHubLogin, &u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) (string, error) {
	id := uuid.NewString()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, role, building_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, id, u.Name, u.Email, u.Role, u.BuildingID).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role model.Role) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET role = $2 WHERE id = $1`, id, role)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepository) UpdateName(ctx context.Context, id, name string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *UserRepository) UpdateBuilding(ctx context.Context, id string, buildingID *string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET building_id = $2 WHERE id = $1`, id, buildingID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
