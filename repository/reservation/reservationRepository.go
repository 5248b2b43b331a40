package reservation

import (
	"context"
	"time"

	"hotelreservation/model"
	"hotelreservation/util/database"

	"github.com/jackc/pgx/v5"
)

type Repo interface {
	// Rooms
	LockRoom(ctx context.Context, tx pgx.Tx, roomID int64) (*model.Room, error)
	SetRoomStatus(ctx context.Context, tx pgx.Tx, roomID int64, status model.RoomStatus) error
	CountActiveForRoom(ctx context.Context, tx pgx.Tx, roomID int64) (int64, error)

	// Guests
	GuestByEmail(ctx context.Context, tx pgx.Tx, email string) (*model.Guest, error)
	InsertGuest(ctx context.Context, tx pgx.Tx, g *model.Guest) error
	UpdateGuest(ctx context.Context, tx pgx.Tx, g *model.Guest) error

	// Reservations
	FindConflicting(ctx context.Context, tx pgx.Tx, roomID int64, checkIn, checkOut time.Time, statuses []model.ReservationStatus, excludeID int64) ([]int64, error)
	Insert(ctx context.Context, tx pgx.Tx, r *model.Reservation) error
	ByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Reservation, error)
	Update(ctx context.Context, tx pgx.Tx, r *model.Reservation) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) error

	// Reads
	ByID(ctx context.Context, id int64) (*model.Reservation, error)
	List(ctx context.Context) ([]model.Reservation, error)

	// Maintenance
	ReconcileRoomStatuses(ctx context.Context) (int64, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db: db} }

const selectReservation = `
	SELECT r.id, r.guest_id, g.name, g.email, g.phone,
	       r.room_id, rm.number,
	       r.check_in, r.check_out, r.number_of_guests, r.total_amount::float8,
	       r.status, r.special_requests, r.created_at, r.updated_at
	FROM reservations r
	JOIN guests g ON g.id = r.guest_id
	JOIN rooms rm ON rm.id = r.room_id`

func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(
		&res.ID, &res.GuestID, &res.GuestName, &res.GuestEmail, &res.GuestPhone,
		&res.RoomID, &res.RoomNumber,
		&res.CheckIn, &res.CheckOut, &res.NumberOfGuests, &res.TotalAmount,
		&res.Status, &res.SpecialRequests, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Rooms

func (r *repo) LockRoom(ctx context.Context, tx pgx.Tx, roomID int64) (*model.Room, error) {
	// Row lock serializes every booking write for this room until commit.
	const q = `
		SELECT id, number, type, price::float8, status, amenities, description
		FROM rooms
		WHERE id = $1
		FOR UPDATE`
	var rm model.Room
	err := tx.QueryRow(ctx, q, roomID).Scan(
		&rm.ID, &rm.Number, &rm.Type, &rm.Price, &rm.Status, &rm.Amenities, &rm.Description,
	)
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

func (r *repo) SetRoomStatus(ctx context.Context, tx pgx.Tx, roomID int64, status model.RoomStatus) error {
	const q = `
		UPDATE rooms
		SET status = $2
		WHERE id = $1`
	tag, err := tx.Exec(ctx, q, roomID, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repo) CountActiveForRoom(ctx context.Context, tx pgx.Tx, roomID int64) (int64, error) {
	const q = `
		SELECT COUNT(*)
		FROM reservations
		WHERE room_id = $1
		  AND status IN ('confirmed', 'checked_in')`
	var n int64
	err := tx.QueryRow(ctx, q, roomID).Scan(&n)
	return n, err
}

// Guests

func (r *repo) GuestByEmail(ctx context.Context, tx pgx.Tx, email string) (*model.Guest, error) {
	const q = `
		SELECT id, name, email, phone, address, created_at
		FROM guests
		WHERE lower(email) = lower($1)`
	var g model.Guest
	err := tx.QueryRow(ctx, q, email).Scan(&g.ID, &g.Name, &g.Email, &g.Phone, &g.Address, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repo) InsertGuest(ctx context.Context, tx pgx.Tx, g *model.Guest) error {
	const q = `
		INSERT INTO guests (name, email, phone, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return tx.QueryRow(ctx, q, g.Name, g.Email, g.Phone, g.Address).Scan(&g.ID, &g.CreatedAt)
}

func (r *repo) UpdateGuest(ctx context.Context, tx pgx.Tx, g *model.Guest) error {
	const q = `
		UPDATE guests
		SET name = $2, email = $3, phone = $4
		WHERE id = $1`
	tag, err := tx.Exec(ctx, q, g.ID, g.Name, g.Email, g.Phone)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Reservations

func (r *repo) FindConflicting(ctx context.Context, tx pgx.Tx, roomID int64, checkIn, checkOut time.Time, statuses []model.ReservationStatus, excludeID int64) ([]int64, error) {
	// Closed-interval overlap, same predicate as model.Overlaps.
	const q = `
		SELECT id
		FROM reservations
		WHERE room_id = $1
		  AND status = ANY($2)
		  AND check_in <= $4
		  AND check_out >= $3
		  AND id <> $5
		ORDER BY check_in`
	st := make([]string, len(statuses))
	for i, s := range statuses {
		st[i] = string(s)
	}
	rows, err := tx.Query(ctx, q, roomID, st, checkIn, checkOut, excludeID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (r *repo) Insert(ctx context.Context, tx pgx.Tx, res *model.Reservation) error {
	const q = `
		INSERT INTO reservations (guest_id, room_id, check_in, check_out, number_of_guests,
		                          total_amount, status, special_requests)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	return tx.QueryRow(ctx, q,
		res.GuestID, res.RoomID, res.CheckIn, res.CheckOut, res.NumberOfGuests,
		res.TotalAmount, string(res.Status), res.SpecialRequests,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
}

func (r *repo) ByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Reservation, error) {
	return scanReservation(tx.QueryRow(ctx, selectReservation+`
	WHERE r.id = $1
	FOR UPDATE OF r`, id))
}

func (r *repo) Update(ctx context.Context, tx pgx.Tx, res *model.Reservation) error {
	const q = `
		UPDATE reservations
		SET check_in = $2,
		    check_out = $3,
		    number_of_guests = $4,
		    total_amount = $5,
		    status = $6,
		    special_requests = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return tx.QueryRow(ctx, q,
		res.ID, res.CheckIn, res.CheckOut, res.NumberOfGuests,
		res.TotalAmount, string(res.Status), res.SpecialRequests,
	).Scan(&res.UpdatedAt)
}

func (r *repo) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Reads

func (r *repo) ByID(ctx context.Context, id int64) (*model.Reservation, error) {
	return scanReservation(r.db.Pool.QueryRow(ctx, selectReservation+`
	WHERE r.id = $1`, id))
}

func (r *repo) List(ctx context.Context) ([]model.Reservation, error) {
	rows, err := r.db.Pool.Query(ctx, selectReservation+`
	ORDER BY r.created_at DESC, r.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// Maintenance

func (r *repo) ReconcileRoomStatuses(ctx context.Context) (int64, error) {
	// Rooms under maintenance or cleaning are managed by hand and left alone.
	const q = `
		WITH derived AS (
			SELECT rm.id,
			       CASE WHEN EXISTS (
			           SELECT 1 FROM reservations r
			           WHERE r.room_id = rm.id AND r.status IN ('confirmed', 'checked_in')
			       ) THEN 'occupied' ELSE 'available' END AS status
			FROM rooms rm
			WHERE rm.status IN ('available', 'occupied')
		)
		UPDATE rooms
		SET status = d.status
		FROM derived d
		WHERE rooms.id = d.id
		  AND rooms.status <> d.status`
	tag, err := r.db.Pool.Exec(ctx, q)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
