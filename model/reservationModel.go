// model/reservation.go
package model

import "time"

type ReservationStatus string

const (
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
)

// ActiveStatuses occupy a room.
var ActiveStatuses = []ReservationStatus{ReservationConfirmed, ReservationCheckedIn}

func (s ReservationStatus) IsActive() bool {
	return s == ReservationConfirmed || s == ReservationCheckedIn
}

// Reservation carries the guest and room display fields alongside the foreign keys
// so API responses need no second lookup.
type Reservation struct {
	ID              int64             `json:"id"`
	GuestID         int64             `json:"guestId"`
	GuestName       string            `json:"guestName"`
	GuestEmail      string            `json:"guestEmail"`
	GuestPhone      string            `json:"guestPhone"`
	RoomID          int64             `json:"roomId"`
	RoomNumber      string            `json:"roomNumber"`
	CheckIn         time.Time         `json:"checkIn"`
	CheckOut        time.Time         `json:"checkOut"`
	NumberOfGuests  int               `json:"numberOfGuests"`
	TotalAmount     float64           `json:"totalAmount"`
	Status          ReservationStatus `json:"status"`
	SpecialRequests *string           `json:"specialRequests,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

type CheckoutTiming struct {
	ReservationID  int64     `json:"reservationId"`
	RoomNumber     string    `json:"roomNumber"`
	CheckIn        time.Time `json:"checkIn"`
	CheckOut       time.Time `json:"checkOut"`
	Days           int64     `json:"days"`
	Hours          int64     `json:"hours"`
	Minutes        int64     `json:"minutes"`
	Seconds        int64     `json:"seconds"`
	Expired        bool      `json:"expired"`
	OverdueHours   int64     `json:"overdueHours,omitempty"`
	OverdueMinutes int64     `json:"overdueMinutes,omitempty"`
	CheckoutSoon   bool      `json:"checkoutSoon"`
}
