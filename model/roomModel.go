// model/room.go
package model

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomSuite  RoomType = "suite"
	RoomDeluxe RoomType = "deluxe"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
	RoomCleaning    RoomStatus = "cleaning"
)

type Room struct {
	ID          int64      `json:"id"`
	Number      string     `json:"number"`
	Type        RoomType   `json:"type"`
	Price       float64    `json:"price"`
	Status      RoomStatus `json:"status"`
	Amenities   []string   `json:"amenities"`
	Description string     `json:"description,omitempty"`
}

// Bookable reports whether new reservations may be taken for the room.
func (r Room) Bookable() bool { return r.Status == RoomAvailable }

func (t RoomType) Valid() bool {
	switch t {
	case RoomSingle, RoomDouble, RoomSuite, RoomDeluxe:
		return true
	}
	return false
}

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance, RoomCleaning:
		return true
	}
	return false
}
