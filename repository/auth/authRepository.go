package auth

import (
	"context"

	"hotelreservation/model"
	"hotelreservation/util/database"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByUsername(ctx context.Context, username string) (*model.User, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, u *model.User) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO users(username, email, phone, password_hash, role)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at`,
		u.Username, u.Email, u.Phone, u.PasswordHash, string(u.Role),
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *repo) ByUsername(ctx context.Context, username string) (*model.User, error) {
	u := &model.User{}
	err := r.db.Pool.QueryRow(ctx, `
        SELECT id, username, email, phone, password_hash, role, created_at
        FROM users
        WHERE lower(username) = lower($1)`,
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}
