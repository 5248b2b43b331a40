package dashboardsvc

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	repo "hotelreservation/repository/dashboard"
	"hotelreservation/service/apperr"
)

// View is one screen of the front-desk dashboard.
type View string

const (
	ViewReserve    View = "reserve"
	ViewList       View = "view"
	ViewRoomNumber View = "room-number"
	ViewUpdate     View = "update"
	ViewDelete     View = "delete"
	ViewCheckout   View = "checkout"
	ViewExit       View = "exit"
)

var ErrUnknownView = errors.New("unknown view")

type MenuItem struct {
	Key         int    `json:"key"`
	View        View   `json:"view"`
	Title       string `json:"title"`
	Method      string `json:"method,omitempty"`
	Path        string `json:"path,omitempty"`
	Description string `json:"description"`
}

var menu = []MenuItem{
	{1, ViewReserve, "Reserve a room", "POST", "/api/reservations", "Book a room for a guest."},
	{2, ViewList, "View reservations", "GET", "/api/reservations", "List every reservation, newest first."},
	{3, ViewRoomNumber, "Find room number", "GET", "/api/reservations/:id/room", "Look up the room booked by a reservation."},
	{4, ViewUpdate, "Update a reservation", "PUT", "/api/reservations/:id", "Change dates, guest details or status."},
	{5, ViewDelete, "Delete a reservation", "DELETE", "/api/reservations/:id", "Remove a reservation and free its room."},
	{6, ViewCheckout, "Checkout timing", "GET", "/api/reservations/:id/checkout", "Time left until checkout, or how long it is overdue."},
	{7, ViewExit, "Exit", "", "", "Close the dashboard."},
}

// ParseView accepts a view name in any case or its menu number.
func ParseView(s string) (View, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		for _, it := range menu {
			if it.Key == n {
				return it.View, nil
			}
		}
		return "", ErrUnknownView
	}
	s = strings.ReplaceAll(s, "_", "-")
	for _, it := range menu {
		if string(it.View) == s {
			return it.View, nil
		}
	}
	return "", ErrUnknownView
}

type Summary struct {
	Date         string           `json:"date"`
	Rooms        map[string]int64 `json:"rooms"`
	Reservations map[string]int64 `json:"reservations"`
	Arrivals     int64            `json:"arrivals"`
	Departures   int64            `json:"departures"`
	Occupancy    float64          `json:"occupancyPercent"`
}

type Service interface {
	Menu() []MenuItem
	Describe(v string) (*MenuItem, error)
	Summary(ctx context.Context, now time.Time) (*Summary, error)
}

type service struct{ r repo.Repo }

func New(r repo.Repo) Service { return &service{r: r} }

func (s *service) Menu() []MenuItem {
	out := make([]MenuItem, len(menu))
	copy(out, menu)
	return out
}

func (s *service) Describe(v string) (*MenuItem, error) {
	view, err := ParseView(v)
	if err != nil {
		return nil, apperr.NotFound("unknown view %q", v)
	}
	for _, it := range menu {
		if it.View == view {
			it := it
			return &it, nil
		}
	}
	return nil, apperr.NotFound("unknown view %q", v)
}

// Summary counts rooms and reservations, and the arrivals and departures of
// now's UTC day.
func (s *service) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	c, err := s.r.Counts(ctx, start, start.Add(24*time.Hour))
	if err != nil {
		return nil, apperr.Store("dashboard counts", err)
	}

	var total int64
	for _, n := range c.RoomsByStatus {
		total += n
	}
	occ := 0.0
	if total > 0 {
		occ = math.Round(float64(c.RoomsByStatus["occupied"])/float64(total)*1000) / 10
	}
	return &Summary{
		Date:         start.Format("2006-01-02"),
		Rooms:        c.RoomsByStatus,
		Reservations: c.ReservationsByStatus,
		Arrivals:     c.Arrivals,
		Departures:   c.Departures,
		Occupancy:    occ,
	}, nil
}
