package roomrepo

import (
	"context"

	"hotelreservation/model"
	"hotelreservation/util/database"

	"github.com/jackc/pgx/v5"
)

type Repo interface {
	Create(ctx context.Context, rm *model.Room) error
	List(ctx context.Context) ([]model.Room, error)
	Detail(ctx context.Context, id int64) (*model.Room, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, rm *model.Room) error {
	const q = `
INSERT INTO rooms (number, type, price, status, amenities, description)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id`
	amenities := rm.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return r.db.Pool.QueryRow(ctx, q,
		rm.Number, string(rm.Type), rm.Price, string(rm.Status), amenities, rm.Description,
	).Scan(&rm.ID)
}

func (r *repo) List(ctx context.Context) ([]model.Room, error) {
	const q = `
SELECT id, number, type, price::float8, status, amenities, description
FROM rooms
ORDER BY number`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanRoom)
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Room, error) {
	const q = `
SELECT id, number, type, price::float8, status, amenities, description
FROM rooms
WHERE id=$1`
	rows, err := r.db.Pool.Query(ctx, q, id)
	if err != nil {
		return nil, err
	}
	rm, err := pgx.CollectExactlyOneRow(rows, scanRoom)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

func scanRoom(row pgx.CollectableRow) (model.Room, error) {
	var rm model.Room
	err := row.Scan(&rm.ID, &rm.Number, &rm.Type, &rm.Price, &rm.Status, &rm.Amenities, &rm.Description)
	return rm, err
}
