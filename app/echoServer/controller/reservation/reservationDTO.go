package reservation

type CreateReservationReq struct {
	GuestName       string  `json:"guestName" validate:"required"`
	GuestEmail      string  `json:"guestEmail" validate:"required,email"`
	GuestPhone      string  `json:"guestPhone"`
	RoomID          int64   `json:"roomId" validate:"required,gt=0"`
	CheckIn         string  `json:"checkIn" validate:"required"`
	CheckOut        string  `json:"checkOut" validate:"required"`
	NumberOfGuests  int     `json:"numberOfGuests" validate:"required,gte=1"`
	SpecialRequests *string `json:"specialRequests"`
}

// UpdateReservationReq is a partial update; absent fields keep their value.
// The room cannot be changed.
type UpdateReservationReq struct {
	GuestName       *string `json:"guestName"`
	GuestEmail      *string `json:"guestEmail" validate:"omitempty,email"`
	GuestPhone      *string `json:"guestPhone"`
	CheckIn         *string `json:"checkIn"`
	CheckOut        *string `json:"checkOut"`
	NumberOfGuests  *int    `json:"numberOfGuests" validate:"omitempty,gte=1"`
	Status          *string `json:"status"`
	SpecialRequests *string `json:"specialRequests"`
}
