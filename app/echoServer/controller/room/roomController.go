package room

import (
	"log/slog"
	"net/http"

	"hotelreservation/app/echoServer/controller"
	"hotelreservation/app/echoServer/jwtx"
	roomsvc "hotelreservation/service/room"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc roomsvc.Service
	Log *slog.Logger
}

// POST /api/rooms  (admin)
func (h *Controller) Create(c echo.Context) error {
	if !jwtx.IsAdmin(c) {
		return controller.Fail(c, http.StatusForbidden, "forbidden")
	}
	var req CreateRoomReq
	if ok, err := controller.BindValid(c, h.Log, &req); !ok {
		return err
	}
	rm, err := h.Svc.Create(c.Request().Context(), roomsvc.CreateInput{
		Number:      req.Number,
		Type:        req.Type,
		Price:       req.Price,
		Status:      req.Status,
		Amenities:   req.Amenities,
		Description: req.Description,
	})
	if err != nil {
		return controller.ServiceError(c, h.Log, "room create", err, http.StatusConflict)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "room": rm})
}

// GET /api/rooms
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return controller.ServiceError(c, h.Log, "room list", err, http.StatusConflict)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "rooms": rows})
}

// GET /api/rooms/:id
func (h *Controller) Detail(c echo.Context) error {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return controller.Fail(c, http.StatusBadRequest, "invalid id")
	}
	rm, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		return controller.ServiceError(c, h.Log, "room detail", err, http.StatusConflict)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "room": rm})
}
