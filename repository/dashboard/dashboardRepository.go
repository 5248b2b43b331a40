package dashboardrepo

import (
	"context"
	"time"

	"hotelreservation/util/database"
)

type Counts struct {
	RoomsByStatus        map[string]int64
	ReservationsByStatus map[string]int64
	Arrivals             int64
	Departures           int64
}

type Repo interface {
	Counts(ctx context.Context, dayStart, dayEnd time.Time) (*Counts, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Counts(ctx context.Context, dayStart, dayEnd time.Time) (*Counts, error) {
	out := &Counts{
		RoomsByStatus:        map[string]int64{},
		ReservationsByStatus: map[string]int64{},
	}
	if err := r.groupCount(ctx, `SELECT status, COUNT(*) FROM rooms GROUP BY status`, out.RoomsByStatus); err != nil {
		return nil, err
	}
	if err := r.groupCount(ctx, `SELECT status, COUNT(*) FROM reservations GROUP BY status`, out.ReservationsByStatus); err != nil {
		return nil, err
	}

	const q = `
SELECT
	COUNT(*) FILTER (WHERE check_in >= $1 AND check_in < $2),
	COUNT(*) FILTER (WHERE check_out >= $1 AND check_out < $2)
FROM reservations
WHERE status IN ('confirmed', 'checked_in')`
	if err := r.db.Pool.QueryRow(ctx, q, dayStart, dayEnd).Scan(&out.Arrivals, &out.Departures); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) groupCount(ctx context.Context, q string, into map[string]int64) error {
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var k string
		var n int64
		if err := rows.Scan(&k, &n); err != nil {
			return err
		}
		into[k] = n
	}
	return rows.Err()
}
