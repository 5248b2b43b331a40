package reservation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hotelreservation/model"
	lockrepo "hotelreservation/repository/lock"
	resrepo "hotelreservation/repository/reservation"
	"hotelreservation/service/apperr"
	"hotelreservation/util/database"
	"hotelreservation/util/mq"

	"github.com/jackc/pgx/v5"
)

const (
	EventCreated = "reservation.created"
	EventUpdated = "reservation.updated"
	EventDeleted = "reservation.deleted"

	defaultLockTTL = 10 * time.Second
)

type Repo = resrepo.Repo

// TxStarter opens the transaction every write runs in. *database.DB and
// *pgxpool.Pool both satisfy it.
type TxStarter interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

type CreateInput struct {
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	RoomID          int64
	CheckIn         time.Time
	CheckOut        time.Time
	NumberOfGuests  int
	SpecialRequests *string
}

// UpdateInput holds a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	GuestName       *string
	GuestEmail      *string
	GuestPhone      *string
	CheckIn         *time.Time
	CheckOut        *time.Time
	NumberOfGuests  *int
	Status          *string
	SpecialRequests *string
}

type RoomLookup struct {
	RoomNumber  string
	Reservation *model.Reservation
}

type Service interface {
	// Create books a room after the availability and overlap checks.
	Create(ctx context.Context, in CreateInput) (*model.Reservation, error)

	// Update applies a partial update and re-checks overlaps when the stay moves or becomes active.
	Update(ctx context.Context, id int64, in UpdateInput) (*model.Reservation, error)

	// Delete removes a reservation and re-derives its room's status.
	Delete(ctx context.Context, id int64) error

	Get(ctx context.Context, id int64) (*model.Reservation, error)
	RoomByReservation(ctx context.Context, id int64) (*RoomLookup, error)

	// List returns every reservation, newest first.
	List(ctx context.Context) ([]model.Reservation, error)

	CheckoutTiming(ctx context.Context, id int64, now time.Time) (*model.CheckoutTiming, error)
}

// ----- Service implementation -----

type service struct {
	db      TxStarter
	r       Repo
	lock    lockrepo.Repo
	pub     mq.Publisher
	log     *slog.Logger
	lockTTL time.Duration
}

// New wires the reservation manager. A nil lock or publisher disables that
// integration.
func New(db TxStarter, r Repo, l lockrepo.Repo, p mq.Publisher, log *slog.Logger, lockTTL time.Duration) Service {
	if l == nil {
		l = lockrepo.Nop{}
	}
	if p == nil {
		p = mq.Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}
	return &service{db: db, r: r, lock: l, pub: p, log: log, lockTTL: lockTTL}
}

func (s *service) Create(ctx context.Context, in CreateInput) (*model.Reservation, error) {
	in.GuestName = strings.TrimSpace(in.GuestName)
	in.GuestEmail = strings.TrimSpace(in.GuestEmail)
	in.GuestPhone = strings.TrimSpace(in.GuestPhone)
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("room:%d", in.RoomID)
	token, err := s.lock.Acquire(ctx, key, s.lockTTL)
	if err != nil {
		return nil, apperr.Store("acquire room lock", err)
	}
	if token == "" {
		return nil, apperr.Conflict("room %d is being booked by another request", in.RoomID)
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), key, token); err != nil {
			s.log.Warn("release room lock", "room_id", in.RoomID, "err", err)
		}
	}()

	var out *model.Reservation
	err = s.inTx(ctx, func(tx pgx.Tx) error {
		room, err := s.r.LockRoom(ctx, tx, in.RoomID)
		if err != nil {
			if database.IsNoRows(err) {
				return apperr.NotFound("room %d not found", in.RoomID)
			}
			return translate("lock room", err)
		}
		if !room.Bookable() {
			return apperr.Conflict("room %s is not available (status %s)", room.Number, room.Status)
		}
		if err := s.ensureNoOverlap(ctx, tx, room, in.CheckIn, in.CheckOut, 0); err != nil {
			return err
		}

		guest, err := s.findOrCreateGuest(ctx, tx, in.GuestName, in.GuestEmail, in.GuestPhone)
		if err != nil {
			return err
		}

		res := &model.Reservation{
			GuestID:         guest.ID,
			GuestName:       guest.Name,
			GuestEmail:      guest.Email,
			GuestPhone:      guest.Phone,
			RoomID:          room.ID,
			RoomNumber:      room.Number,
			CheckIn:         in.CheckIn,
			CheckOut:        in.CheckOut,
			NumberOfGuests:  in.NumberOfGuests,
			TotalAmount:     model.TotalAmount(in.CheckIn, in.CheckOut, room.Price),
			Status:          model.ReservationConfirmed,
			SpecialRequests: in.SpecialRequests,
		}
		if err := s.r.Insert(ctx, tx, res); err != nil {
			return translate("insert reservation", err)
		}
		if err := s.r.SetRoomStatus(ctx, tx, room.ID, model.RoomOccupied); err != nil {
			return translate("mark room occupied", err)
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventCreated, out)
	return out, nil
}

func (s *service) Update(ctx context.Context, id int64, in UpdateInput) (*model.Reservation, error) {
	var out *model.Reservation
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		cur, err := s.r.ByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "reservation %d not found", id)
		}
		room, err := s.r.LockRoom(ctx, tx, cur.RoomID)
		if err != nil {
			return translate("lock room", err)
		}

		next, guestChanged, err := applyUpdate(*cur, in)
		if err != nil {
			return err
		}

		datesChanged := !next.CheckIn.Equal(cur.CheckIn) || !next.CheckOut.Equal(cur.CheckOut)
		activated := next.Status.IsActive() && !cur.Status.IsActive()
		if next.Status.IsActive() && (datesChanged || activated) {
			if err := s.ensureNoOverlap(ctx, tx, room, next.CheckIn, next.CheckOut, cur.ID); err != nil {
				return err
			}
		}
		if datesChanged {
			next.TotalAmount = model.TotalAmount(next.CheckIn, next.CheckOut, room.Price)
		}

		if guestChanged {
			g := &model.Guest{ID: next.GuestID, Name: next.GuestName, Email: next.GuestEmail, Phone: next.GuestPhone}
			if err := s.r.UpdateGuest(ctx, tx, g); err != nil {
				return translate("update guest", err)
			}
		}
		if err := s.r.Update(ctx, tx, &next); err != nil {
			return translate("update reservation", err)
		}
		if next.Status != cur.Status {
			if err := s.syncRoomStatus(ctx, tx, room); err != nil {
				return err
			}
		}
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventUpdated, out)
	return out, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	var gone *model.Reservation
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		cur, err := s.r.ByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "reservation %d not found", id)
		}
		room, err := s.r.LockRoom(ctx, tx, cur.RoomID)
		if err != nil {
			return translate("lock room", err)
		}
		if err := s.r.Delete(ctx, tx, id); err != nil {
			return notFoundOr(err, "reservation %d not found", id)
		}
		if err := s.syncRoomStatus(ctx, tx, room); err != nil {
			return err
		}
		gone = cur
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, EventDeleted, gone)
	return nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.Reservation, error) {
	res, err := s.r.ByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "reservation %d not found", id)
	}
	return res, nil
}

func (s *service) RoomByReservation(ctx context.Context, id int64) (*RoomLookup, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RoomLookup{RoomNumber: res.RoomNumber, Reservation: res}, nil
}

func (s *service) List(ctx context.Context) ([]model.Reservation, error) {
	out, err := s.r.List(ctx)
	if err != nil {
		return nil, apperr.Store("list reservations", err)
	}
	return out, nil
}

func (s *service) CheckoutTiming(ctx context.Context, id int64, now time.Time) (*model.CheckoutTiming, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return timing(res, now), nil
}

func timing(res *model.Reservation, now time.Time) *model.CheckoutTiming {
	const day = 24 * time.Hour
	t := &model.CheckoutTiming{
		ReservationID: res.ID,
		RoomNumber:    res.RoomNumber,
		CheckIn:       res.CheckIn,
		CheckOut:      res.CheckOut,
	}
	left := res.CheckOut.Sub(now)
	if left <= 0 {
		over := -left
		t.Expired = true
		t.OverdueHours = int64(over / time.Hour)
		t.OverdueMinutes = int64(over % time.Hour / time.Minute)
		return t
	}
	t.Days = int64(left / day)
	t.Hours = int64(left % day / time.Hour)
	t.Minutes = int64(left % time.Hour / time.Minute)
	t.Seconds = int64(left % time.Minute / time.Second)
	t.CheckoutSoon = left < 2*time.Hour
	return t
}

// ----- helpers -----

func (s *service) inTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return apperr.Store("begin tx", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return translate("commit", err)
	}
	return nil
}

func (s *service) ensureNoOverlap(ctx context.Context, tx pgx.Tx, room *model.Room, checkIn, checkOut time.Time, excludeID int64) error {
	ids, err := s.r.FindConflicting(ctx, tx, room.ID, checkIn, checkOut, model.ActiveStatuses, excludeID)
	if err != nil {
		return translate("find conflicting reservations", err)
	}
	if len(ids) > 0 {
		return apperr.Conflict("room %s is already booked for the selected dates (reservation %d)", room.Number, ids[0])
	}
	return nil
}

func (s *service) findOrCreateGuest(ctx context.Context, tx pgx.Tx, name, email, phone string) (*model.Guest, error) {
	g, err := s.r.GuestByEmail(ctx, tx, email)
	if err == nil {
		return g, nil
	}
	if !database.IsNoRows(err) {
		return nil, translate("find guest", err)
	}
	g = &model.Guest{Name: name, Email: email, Phone: phone}
	if err := s.r.InsertGuest(ctx, tx, g); err != nil {
		return nil, translate("create guest", err)
	}
	return g, nil
}

// syncRoomStatus derives occupied/available from the room's remaining active
// reservations. Maintenance and cleaning are set by staff and kept.
func (s *service) syncRoomStatus(ctx context.Context, tx pgx.Tx, room *model.Room) error {
	if room.Status != model.RoomAvailable && room.Status != model.RoomOccupied {
		return nil
	}
	n, err := s.r.CountActiveForRoom(ctx, tx, room.ID)
	if err != nil {
		return translate("count active reservations", err)
	}
	want := model.RoomAvailable
	if n > 0 {
		want = model.RoomOccupied
	}
	if want == room.Status {
		return nil
	}
	if err := s.r.SetRoomStatus(ctx, tx, room.ID, want); err != nil {
		return translate("set room status", err)
	}
	room.Status = want
	return nil
}

func (s *service) publish(ctx context.Context, key string, res *model.Reservation) {
	err := s.pub.PublishJSON(ctx, key, map[string]any{
		"reservation_id": res.ID,
		"room_id":        res.RoomID,
		"room_number":    res.RoomNumber,
		"guest_email":    res.GuestEmail,
		"status":         res.Status,
		"check_in":       res.CheckIn.Unix(),
		"check_out":      res.CheckOut.Unix(),
		"total_amount":   res.TotalAmount,
	})
	if err != nil {
		s.log.Error("publish reservation event", "key", key, "reservation_id", res.ID, "err", err)
	}
}

func validateCreate(in CreateInput) error {
	switch {
	case in.GuestName == "":
		return apperr.Validation("guestName is required")
	case in.GuestEmail == "":
		return apperr.Validation("guestEmail is required")
	case in.RoomID <= 0:
		return apperr.Validation("roomId is required")
	case in.CheckIn.IsZero() || in.CheckOut.IsZero():
		return apperr.Validation("checkIn and checkOut are required")
	case !in.CheckOut.After(in.CheckIn):
		return apperr.Validation("checkOut must be after checkIn")
	case in.NumberOfGuests < 1:
		return apperr.Validation("numberOfGuests must be at least 1")
	}
	return nil
}

func applyUpdate(next model.Reservation, in UpdateInput) (model.Reservation, bool, error) {
	guestChanged := false
	if in.GuestName != nil {
		v := strings.TrimSpace(*in.GuestName)
		if v == "" {
			return next, false, apperr.Validation("guestName cannot be empty")
		}
		next.GuestName, guestChanged = v, true
	}
	if in.GuestEmail != nil {
		v := strings.TrimSpace(*in.GuestEmail)
		if v == "" {
			return next, false, apperr.Validation("guestEmail cannot be empty")
		}
		next.GuestEmail, guestChanged = v, true
	}
	if in.GuestPhone != nil {
		next.GuestPhone, guestChanged = strings.TrimSpace(*in.GuestPhone), true
	}
	if in.CheckIn != nil {
		next.CheckIn = *in.CheckIn
	}
	if in.CheckOut != nil {
		next.CheckOut = *in.CheckOut
	}
	if !next.CheckOut.After(next.CheckIn) {
		return next, false, apperr.Validation("checkOut must be after checkIn")
	}
	if in.NumberOfGuests != nil {
		if *in.NumberOfGuests < 1 {
			return next, false, apperr.Validation("numberOfGuests must be at least 1")
		}
		next.NumberOfGuests = *in.NumberOfGuests
	}
	if in.Status != nil {
		st, err := model.ParseReservationStatus(*in.Status)
		if err != nil {
			return next, false, apperr.Validation("%s", err.Error())
		}
		next.Status = st
	}
	if in.SpecialRequests != nil {
		next.SpecialRequests = in.SpecialRequests
	}
	return next, guestChanged, nil
}

func notFoundOr(err error, format string, args ...any) error {
	if database.IsNoRows(err) {
		return apperr.NotFound(format, args...)
	}
	return translate("load reservation", err)
}

// translate maps constraint and concurrency failures to conflicts; anything
// else is a store error.
func translate(op string, err error) error {
	if apperr.Code(err) != "" {
		return err
	}
	if database.IsSerializationFailure(err) {
		return apperr.Conflict("the room was booked concurrently, please retry")
	}
	if name, ok := database.IsUniqueViolation(err); ok {
		if strings.Contains(name, "guests_email") {
			return apperr.Conflict("email already belongs to another guest")
		}
		return apperr.Conflict("duplicate value (%s)", name)
	}
	return apperr.Store(op, err)
}
