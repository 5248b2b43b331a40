package roomsvc

import (
	"context"
	"strings"

	"hotelreservation/model"
	repo "hotelreservation/repository/room"
	"hotelreservation/service/apperr"
	"hotelreservation/util/database"
)

type Repo = repo.Repo

type CreateInput struct {
	Number      string
	Type        string
	Price       float64
	Status      string
	Amenities   []string
	Description string
}

type Service interface {
	Create(ctx context.Context, in CreateInput) (*model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
	Detail(ctx context.Context, id int64) (*model.Room, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, in CreateInput) (*model.Room, error) {
	rm := &model.Room{
		Number:      strings.TrimSpace(in.Number),
		Type:        model.RoomType(strings.ToLower(strings.TrimSpace(in.Type))),
		Price:       in.Price,
		Status:      model.RoomStatus(strings.ToLower(strings.TrimSpace(in.Status))),
		Amenities:   in.Amenities,
		Description: strings.TrimSpace(in.Description),
	}
	if rm.Status == "" {
		rm.Status = model.RoomAvailable
	}
	switch {
	case rm.Number == "":
		return nil, apperr.Validation("number is required")
	case !rm.Type.Valid():
		return nil, apperr.Validation("unknown room type %q", in.Type)
	case !rm.Status.Valid():
		return nil, apperr.Validation("unknown room status %q", in.Status)
	case rm.Status == model.RoomOccupied:
		// occupied follows from active reservations
		return nil, apperr.Validation("status %q cannot be set on a new room", rm.Status)
	case rm.Price < 0:
		return nil, apperr.Validation("price cannot be negative")
	}

	if err := s.r.Create(ctx, rm); err != nil {
		if _, ok := database.IsUniqueViolation(err); ok {
			return nil, apperr.Conflict("room %s already exists", rm.Number)
		}
		return nil, apperr.Store("create room", err)
	}
	return rm, nil
}

func (s *service) List(ctx context.Context) ([]model.Room, error) {
	out, err := s.r.List(ctx)
	if err != nil {
		return nil, apperr.Store("list rooms", err)
	}
	return out, nil
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Room, error) {
	rm, err := s.r.Detail(ctx, id)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, apperr.NotFound("room %d not found", id)
		}
		return nil, apperr.Store("room detail", err)
	}
	return rm, nil
}
