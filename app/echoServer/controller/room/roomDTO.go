package room

type CreateRoomReq struct {
	Number      string   `json:"number" validate:"required"`
	Type        string   `json:"type" validate:"required,oneof=single double suite deluxe"`
	Price       float64  `json:"price" validate:"gte=0"`
	Status      string   `json:"status" validate:"omitempty,oneof=available maintenance cleaning"`
	Amenities   []string `json:"amenities"`
	Description string   `json:"description"`
}
