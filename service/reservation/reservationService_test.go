// service/reservation/reservation_service_test.go
package reservation_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"hotelreservation/model"
	"hotelreservation/service/apperr"
	ressvc "hotelreservation/service/reservation"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// ----- fakes -----

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error   { t.committed = true; return nil }
func (t *fakeTx) Rollback(context.Context) error { t.rolledBack = true; return nil }

type fakeDB struct {
	txs      []*fakeTx
	beginErr error
}

func (d *fakeDB) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	tx := &fakeTx{}
	d.txs = append(d.txs, tx)
	return tx, nil
}

func (d *fakeDB) last() *fakeTx { return d.txs[len(d.txs)-1] }

// fakeRepo keeps rooms, guests and reservations in memory. Transactions are
// ignored; mutations counts every write.
type fakeRepo struct {
	mu        sync.Mutex
	rooms     map[int64]*model.Room
	guests    map[int64]*model.Guest
	res       map[int64]*model.Reservation
	nextGuest int64
	nextRes   int64
	clock     time.Time
	mutations int
	insertErr error
	lockErr   error
}

var _ ressvc.Repo = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rooms: map[int64]*model.Room{
			1: {ID: 1, Number: "101", Type: model.RoomSingle, Price: 2500, Status: model.RoomAvailable},
			2: {ID: 2, Number: "205", Type: model.RoomDouble, Price: 6000, Status: model.RoomAvailable},
			3: {ID: 3, Number: "301", Type: model.RoomSuite, Price: 12000, Status: model.RoomMaintenance},
		},
		guests: map[int64]*model.Guest{},
		res:    map[int64]*model.Reservation{},
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fakeRepo) LockRoom(_ context.Context, _ pgx.Tx, roomID int64) (*model.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lockErr != nil {
		return nil, f.lockErr
	}
	rm, ok := f.rooms[roomID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *rm
	return &cp, nil
}

func (f *fakeRepo) SetRoomStatus(_ context.Context, _ pgx.Tx, roomID int64, status model.RoomStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rm, ok := f.rooms[roomID]
	if !ok {
		return pgx.ErrNoRows
	}
	f.mutations++
	rm.Status = status
	return nil
}

func (f *fakeRepo) CountActiveForRoom(_ context.Context, _ pgx.Tx, roomID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.res {
		if r.RoomID == roomID && r.Status.IsActive() {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) GuestByEmail(_ context.Context, _ pgx.Tx, email string) (*model.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.guests {
		if strings.EqualFold(g.Email, email) {
			cp := *g
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeRepo) InsertGuest(_ context.Context, _ pgx.Tx, g *model.Guest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations++
	f.nextGuest++
	g.ID = f.nextGuest
	g.CreatedAt = f.tick()
	cp := *g
	f.guests[g.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateGuest(_ context.Context, _ pgx.Tx, g *model.Guest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.guests[g.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	f.mutations++
	cur.Name, cur.Email, cur.Phone = g.Name, g.Email, g.Phone
	return nil
}

func (f *fakeRepo) FindConflicting(_ context.Context, _ pgx.Tx, roomID int64, checkIn, checkOut time.Time, statuses []model.ReservationStatus, excludeID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for _, r := range f.res {
		if r.RoomID != roomID || r.ID == excludeID {
			continue
		}
		active := false
		for _, st := range statuses {
			if r.Status == st {
				active = true
			}
		}
		if active && model.Overlaps(checkIn, checkOut, r.CheckIn, r.CheckOut) {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

func (f *fakeRepo) Insert(_ context.Context, _ pgx.Tx, r *model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mutations++
	f.nextRes++
	r.ID = f.nextRes
	r.CreatedAt = f.tick()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	f.res[r.ID] = &cp
	return nil
}

func (f *fakeRepo) ByIDForUpdate(ctx context.Context, _ pgx.Tx, id int64) (*model.Reservation, error) {
	return f.ByID(ctx, id)
}

func (f *fakeRepo) Update(_ context.Context, _ pgx.Tx, r *model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.res[r.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	f.mutations++
	r.UpdatedAt = f.tick()
	cur.CheckIn, cur.CheckOut = r.CheckIn, r.CheckOut
	cur.NumberOfGuests, cur.TotalAmount = r.NumberOfGuests, r.TotalAmount
	cur.Status, cur.SpecialRequests, cur.UpdatedAt = r.Status, r.SpecialRequests, r.UpdatedAt
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, _ pgx.Tx, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.res[id]; !ok {
		return pgx.ErrNoRows
	}
	f.mutations++
	delete(f.res, id)
	return nil
}

// ByID joins guest and room like the SQL repository does.
func (f *fakeRepo) ByID(_ context.Context, id int64) (*model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.res[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return f.joined(r), nil
}

func (f *fakeRepo) joined(r *model.Reservation) *model.Reservation {
	cp := *r
	if g, ok := f.guests[r.GuestID]; ok {
		cp.GuestName, cp.GuestEmail, cp.GuestPhone = g.Name, g.Email, g.Phone
	}
	if rm, ok := f.rooms[r.RoomID]; ok {
		cp.RoomNumber = rm.Number
	}
	return &cp
}

func (f *fakeRepo) List(context.Context) ([]model.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Reservation{}
	for _, r := range f.res {
		out = append(out, *f.joined(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRepo) ReconcileRoomStatuses(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, rm := range f.rooms {
		if rm.Status != model.RoomAvailable && rm.Status != model.RoomOccupied {
			continue
		}
		want := model.RoomAvailable
		for _, r := range f.res {
			if r.RoomID == rm.ID && r.Status.IsActive() {
				want = model.RoomOccupied
			}
		}
		if rm.Status != want {
			rm.Status = want
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) roomStatus(id int64) model.RoomStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rooms[id].Status
}

type fakeLock struct {
	held     map[string]bool
	tokens   map[string]string
	acquired []string
	released []string
}

func (l *fakeLock) Acquire(_ context.Context, key string, _ time.Duration) (string, error) {
	if l.held[key] {
		return "", nil
	}
	tok := fmt.Sprintf("tok-%d", len(l.acquired)+1)
	l.tokens[key] = tok
	l.acquired = append(l.acquired, key)
	return tok, nil
}

func (l *fakeLock) Release(_ context.Context, key, token string) error {
	if l.tokens[key] != token {
		return fmt.Errorf("lock %s not owned by %q", key, token)
	}
	delete(l.tokens, key)
	l.released = append(l.released, key)
	return nil
}

func (l *fakeLock) Close() error { return nil }

type event struct {
	key string
	v   any
}

type fakePub struct {
	events []event
	err    error
}

func (p *fakePub) PublishJSON(_ context.Context, key string, v any) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event{key: key, v: v})
	return nil
}

func (p *fakePub) Close() error { return nil }

// ----- helpers -----

type fixture struct {
	db   *fakeDB
	repo *fakeRepo
	lock *fakeLock
	pub  *fakePub
	svc  ressvc.Service
}

func newFixture() *fixture {
	f := &fixture{db: &fakeDB{}, repo: newFakeRepo(), lock: &fakeLock{held: map[string]bool{}, tokens: map[string]string{}}, pub: &fakePub{}}
	f.svc = ressvc.New(f.db, f.repo, f.lock, f.pub, nil, time.Second)
	return f
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func johnIn205() ressvc.CreateInput {
	return ressvc.CreateInput{
		GuestName:      "John Smith",
		GuestEmail:     "john.smith@email.com",
		GuestPhone:     "+1-555-0123",
		RoomID:         2,
		CheckIn:        ts("2024-02-15T15:00:00Z"),
		CheckOut:       ts("2024-02-18T11:00:00Z"),
		NumberOfGuests: 2,
	}
}

func ptr[T any](v T) *T { return &v }

// ----- Create -----

func TestCreate_BooksRoomAndMarksOccupied(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Create(ctx, johnIn205())
	require.NoError(t, err)
	require.NotZero(t, res.ID)
	require.Equal(t, model.ReservationConfirmed, res.Status)
	require.Equal(t, 18000.0, res.TotalAmount)
	require.Equal(t, "205", res.RoomNumber)
	require.Equal(t, "John Smith", res.GuestName)
	require.Equal(t, model.RoomOccupied, f.repo.roomStatus(2))

	require.True(t, f.db.last().committed)
	require.False(t, f.db.last().rolledBack)
	require.Equal(t, []string{"room:2"}, f.lock.acquired)
	require.Equal(t, []string{"room:2"}, f.lock.released)
	require.Empty(t, f.lock.tokens)
	require.Len(t, f.pub.events, 1)
	require.Equal(t, ressvc.EventCreated, f.pub.events[0].key)
}

func TestCreate_ReusesGuestByEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Create(ctx, johnIn205())
	require.NoError(t, err)

	in := johnIn205()
	in.RoomID = 1
	in.GuestName = "Johnny"
	in.GuestEmail = "JOHN.SMITH@email.com"
	second, err := f.svc.Create(ctx, in)
	require.NoError(t, err)

	require.Equal(t, first.GuestID, second.GuestID)
	require.Len(t, f.repo.guests, 1)
}

func TestCreate_OverlapIsConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, johnIn205())
	require.NoError(t, err)

	// the room stays occupied, so put it back to available to reach the overlap check
	require.NoError(t, f.repo.SetRoomStatus(ctx, nil, 2, model.RoomAvailable))

	in := johnIn205()
	in.GuestEmail = "jane@email.com"
	in.CheckIn = ts("2024-02-17T14:00:00Z")
	in.CheckOut = ts("2024-02-20T11:00:00Z")
	_, err = f.svc.Create(ctx, in)
	require.Error(t, err)
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))
	require.Len(t, f.repo.res, 1)
	require.True(t, f.db.last().rolledBack)
}

func TestCreate_SameDayTurnoverConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, johnIn205())
	require.NoError(t, err)
	require.NoError(t, f.repo.SetRoomStatus(ctx, nil, 2, model.RoomAvailable))

	in := johnIn205()
	in.CheckIn = ts("2024-02-18T11:00:00Z")
	in.CheckOut = ts("2024-02-19T11:00:00Z")
	_, err = f.svc.Create(ctx, in)
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))
}

func TestCreate_RoomNotAvailable(t *testing.T) {
	f := newFixture()
	in := johnIn205()
	in.RoomID = 3

	_, err := f.svc.Create(context.Background(), in)
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))
	require.Contains(t, err.Error(), "maintenance")
	require.Zero(t, f.repo.mutations)
}

func TestCreate_UnknownRoom(t *testing.T) {
	f := newFixture()
	in := johnIn205()
	in.RoomID = 999

	_, err := f.svc.Create(context.Background(), in)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
	require.Zero(t, f.repo.mutations)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cases := map[string]func(*ressvc.CreateInput){
		"no name":        func(in *ressvc.CreateInput) { in.GuestName = "  " },
		"no email":       func(in *ressvc.CreateInput) { in.GuestEmail = "" },
		"no room":        func(in *ressvc.CreateInput) { in.RoomID = 0 },
		"no dates":       func(in *ressvc.CreateInput) { in.CheckIn = time.Time{} },
		"reversed dates": func(in *ressvc.CreateInput) { in.CheckIn, in.CheckOut = in.CheckOut, in.CheckIn },
		"empty stay":     func(in *ressvc.CreateInput) { in.CheckOut = in.CheckIn },
		"no guests":      func(in *ressvc.CreateInput) { in.NumberOfGuests = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := johnIn205()
			mutate(&in)
			_, err := f.svc.Create(ctx, in)
			require.Equal(t, apperr.ErrValidation, apperr.Code(err))
		})
	}
	require.Empty(t, f.db.txs)
	require.Empty(t, f.lock.acquired)
}

func TestCreate_LockHeldIsConflict(t *testing.T) {
	f := newFixture()
	f.lock.held["room:2"] = true

	_, err := f.svc.Create(context.Background(), johnIn205())
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))
	require.Empty(t, f.db.txs)
}

func TestCreate_SerializationFailureIsConflict(t *testing.T) {
	f := newFixture()
	f.repo.insertErr = &pgconn.PgError{Code: pgerrcode.SerializationFailure}

	_, err := f.svc.Create(context.Background(), johnIn205())
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))
	require.True(t, f.db.last().rolledBack)
}

// A writer queued behind another transaction's FOR UPDATE fails on the row
// lock itself once the first one commits.
func TestCreate_SerializationFailureOnRoomLockIsConflict(t *testing.T) {
	f := newFixture()
	f.repo.lockErr = &pgconn.PgError{Code: pgerrcode.SerializationFailure}

	_, err := f.svc.Create(context.Background(), johnIn205())
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))
	require.True(t, f.db.last().rolledBack)
	require.Zero(t, f.repo.mutations)
	require.Empty(t, f.pub.events)
}

func TestUpdateDelete_SerializationFailureOnRoomLockIsConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Create(ctx, johnIn205())
	require.NoError(t, err)
	f.repo.lockErr = &pgconn.PgError{Code: pgerrcode.SerializationFailure}

	_, err = f.svc.Update(ctx, res.ID, ressvc.UpdateInput{Status: ptr("cancelled")})
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))
	require.True(t, f.db.last().rolledBack)

	err = f.svc.Delete(ctx, res.ID)
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))
	require.True(t, f.db.last().rolledBack)
	require.Len(t, f.repo.res, 1)
	require.Equal(t, model.RoomOccupied, f.repo.roomStatus(2))
}

func TestCreate_RoomLockStoreFailure(t *testing.T) {
	f := newFixture()
	f.repo.lockErr = errors.New("connection reset")

	_, err := f.svc.Create(context.Background(), johnIn205())
	require.Equal(t, apperr.ErrStore, apperr.Code(err))
}

func TestCreate_StoreFailure(t *testing.T) {
	f := newFixture()
	f.repo.insertErr = errors.New("connection reset")

	_, err := f.svc.Create(context.Background(), johnIn205())
	require.Equal(t, apperr.ErrStore, apperr.Code(err))
	require.Equal(t, "internal error", apperr.Message(err))
}

func TestCreate_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture()
	f.pub.err = errors.New("broker down")

	res, err := f.svc.Create(context.Background(), johnIn205())
	require.NoError(t, err)
	require.NotZero(t, res.ID)
}

func TestCreate_BeginFailure(t *testing.T) {
	f := newFixture()
	f.db.beginErr = errors.New("pool closed")

	_, err := f.svc.Create(context.Background(), johnIn205())
	require.Equal(t, apperr.ErrStore, apperr.Code(err))
	require.Equal(t, []string{"room:2"}, f.lock.released)
}

// ----- Read -----

func TestGet_RoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, johnIn205())
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, created.GuestEmail, got.GuestEmail)
	require.True(t, created.CheckIn.Equal(got.CheckIn))
	require.True(t, created.CheckOut.Equal(got.CheckOut))
	require.Equal(t, created.TotalAmount, got.TotalAmount)
	require.Equal(t, created.Status, got.Status)

	lookup, err := f.svc.RoomByReservation(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "205", lookup.RoomNumber)

	_, err = f.svc.Get(ctx, 404)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
	_, err = f.svc.RoomByReservation(ctx, 404)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
}

func TestList_NewestFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.svc.Create(ctx, johnIn205())
	require.NoError(t, err)
	in := johnIn205()
	in.RoomID = 1
	b, err := f.svc.Create(ctx, in)
	require.NoError(t, err)

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, b.ID, list[0].ID)
	require.Equal(t, a.ID, list[1].ID)
}

// ----- Update -----

func TestUpdate_StatusNormalizedAndRoomFreed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Create(ctx, johnIn205())
	require.NoError(t, err)

	got, err := f.svc.Update(ctx, res.ID, ressvc.UpdateInput{Status: ptr(" Checked-Out ")})
	require.NoError(t, err)
	require.Equal(t, model.ReservationCheckedOut, got.Status)
	require.Equal(t, model.RoomAvailable, f.repo.roomStatus(2))

	_, err = f.svc.Update(ctx, res.ID, ressvc.UpdateInput{Status: ptr("gone")})
	require.Equal(t, apperr.ErrValidation, apperr.Code(err))
}

func TestUpdate_DatesRecheckOverlapAndReprice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Create(ctx, johnIn205())
	require.NoError(t, err)
	require.NoError(t, f.repo.SetRoomStatus(ctx, nil, 2, model.RoomAvailable))

	in := johnIn205()
	in.GuestEmail = "jane@email.com"
	in.CheckIn = ts("2024-02-20T15:00:00Z")
	in.CheckOut = ts("2024-02-22T11:00:00Z")
	second, err := f.svc.Create(ctx, in)
	require.NoError(t, err)
	require.Equal(t, 12000.0, second.TotalAmount)

	// moving onto the first stay is rejected
	_, err = f.svc.Update(ctx, second.ID, ressvc.UpdateInput{CheckIn: ptr(ts("2024-02-17T15:00:00Z"))})
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))

	// shrinking its own stay does not collide with itself
	got, err := f.svc.Update(ctx, first.ID, ressvc.UpdateInput{CheckOut: ptr(ts("2024-02-16T11:00:00Z"))})
	require.NoError(t, err)
	require.Equal(t, 6000.0, got.TotalAmount)
}

func TestUpdate_ReactivationRechecksOverlap(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Create(ctx, johnIn205())
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, first.ID, ressvc.UpdateInput{Status: ptr("cancelled")})
	require.NoError(t, err)
	require.Equal(t, model.RoomAvailable, f.repo.roomStatus(2))

	in := johnIn205()
	in.GuestEmail = "jane@email.com"
	_, err = f.svc.Create(ctx, in)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, first.ID, ressvc.UpdateInput{Status: ptr("confirmed")})
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))
}

func TestUpdate_InvalidMergedDates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Create(ctx, johnIn205())
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, res.ID, ressvc.UpdateInput{CheckIn: ptr(ts("2024-02-19T00:00:00Z"))})
	require.Equal(t, apperr.ErrValidation, apperr.Code(err))

	_, err = f.svc.Update(ctx, res.ID, ressvc.UpdateInput{NumberOfGuests: ptr(0)})
	require.Equal(t, apperr.ErrValidation, apperr.Code(err))
}

func TestUpdate_GuestFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Create(ctx, johnIn205())
	require.NoError(t, err)

	got, err := f.svc.Update(ctx, res.ID, ressvc.UpdateInput{
		GuestPhone:      ptr("+1-555-9999"),
		SpecialRequests: ptr("late arrival"),
	})
	require.NoError(t, err)
	require.Equal(t, "+1-555-9999", got.GuestPhone)
	require.Equal(t, "late arrival", *got.SpecialRequests)
	require.Equal(t, "+1-555-9999", f.repo.guests[res.GuestID].Phone)

	_, err = f.svc.Update(ctx, res.ID, ressvc.UpdateInput{GuestName: ptr(" ")})
	require.Equal(t, apperr.ErrValidation, apperr.Code(err))
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Update(context.Background(), 77, ressvc.UpdateInput{Status: ptr("confirmed")})
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
	require.Zero(t, f.repo.mutations)
}

// ----- Delete -----

func TestDelete_FreesRoom(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Create(ctx, johnIn205())
	require.NoError(t, err)
	require.Equal(t, model.RoomOccupied, f.repo.roomStatus(2))

	require.NoError(t, f.svc.Delete(ctx, res.ID))
	require.Equal(t, model.RoomAvailable, f.repo.roomStatus(2))
	require.True(t, f.db.last().committed)

	_, err = f.svc.Get(ctx, res.ID)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
	require.Equal(t, ressvc.EventDeleted, f.pub.events[len(f.pub.events)-1].key)
}

func TestDelete_KeepsRoomOccupiedWhileOthersActive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Create(ctx, johnIn205())
	require.NoError(t, err)
	require.NoError(t, f.repo.SetRoomStatus(ctx, nil, 2, model.RoomAvailable))
	in := johnIn205()
	in.CheckIn = ts("2024-03-01T15:00:00Z")
	in.CheckOut = ts("2024-03-02T11:00:00Z")
	_, err = f.svc.Create(ctx, in)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, first.ID))
	require.Equal(t, model.RoomOccupied, f.repo.roomStatus(2))
}

func TestDelete_NotFoundNoMutation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, johnIn205())
	require.NoError(t, err)
	before := f.repo.mutations

	err = f.svc.Delete(ctx, 12345)
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
	require.Equal(t, before, f.repo.mutations)
	require.True(t, f.db.last().rolledBack)
	require.Equal(t, model.RoomOccupied, f.repo.roomStatus(2))
}

// ----- CheckoutTiming -----

func TestCheckoutTiming(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.svc.Create(ctx, johnIn205())
	require.NoError(t, err)

	got, err := f.svc.CheckoutTiming(ctx, res.ID, ts("2024-02-16T09:30:15Z"))
	require.NoError(t, err)
	require.False(t, got.Expired)
	require.False(t, got.CheckoutSoon)
	require.EqualValues(t, 2, got.Days)
	require.EqualValues(t, 1, got.Hours)
	require.EqualValues(t, 29, got.Minutes)
	require.EqualValues(t, 45, got.Seconds)
	require.Equal(t, "205", got.RoomNumber)

	soon, err := f.svc.CheckoutTiming(ctx, res.ID, ts("2024-02-18T09:30:00Z"))
	require.NoError(t, err)
	require.True(t, soon.CheckoutSoon)
	require.EqualValues(t, 1, soon.Hours)
	require.EqualValues(t, 30, soon.Minutes)

	late, err := f.svc.CheckoutTiming(ctx, res.ID, ts("2024-02-18T14:45:00Z"))
	require.NoError(t, err)
	require.True(t, late.Expired)
	require.EqualValues(t, 3, late.OverdueHours)
	require.EqualValues(t, 45, late.OverdueMinutes)

	_, err = f.svc.CheckoutTiming(ctx, 999, time.Now())
	require.Equal(t, apperr.ErrNotFound, apperr.Code(err))
}

// ----- Reconciler -----

func TestReconciler(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, johnIn205())
	require.NoError(t, err)
	require.NoError(t, f.repo.SetRoomStatus(ctx, nil, 2, model.RoomAvailable))
	require.NoError(t, f.repo.SetRoomStatus(ctx, nil, 1, model.RoomOccupied))

	n, err := ressvc.NewReconciler(f.repo).ReconcileRooms(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
	require.Equal(t, model.RoomOccupied, f.repo.roomStatus(2))
	require.Equal(t, model.RoomAvailable, f.repo.roomStatus(1))
	require.Equal(t, model.RoomMaintenance, f.repo.roomStatus(3))
}

func TestScenario_Room205(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := ressvc.CreateInput{
		GuestName:      "A",
		GuestEmail:     "a@x.com",
		RoomID:         2,
		CheckIn:        ts("2024-02-15T00:00:00Z"),
		CheckOut:       ts("2024-02-18T00:00:00Z"),
		NumberOfGuests: 1,
	}
	res, err := f.svc.Create(ctx, in)
	require.NoError(t, err)
	require.Equal(t, 18000.0, res.TotalAmount)
	require.Equal(t, model.ReservationConfirmed, res.Status)
	require.Equal(t, model.RoomOccupied, f.repo.roomStatus(2))

	in.CheckIn = ts("2024-02-17T00:00:00Z")
	in.CheckOut = ts("2024-02-20T00:00:00Z")
	_, err = f.svc.Create(ctx, in)
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))

	require.NoError(t, f.svc.Delete(ctx, res.ID))
	require.Equal(t, model.RoomAvailable, f.repo.roomStatus(2))
}
