package reservation

import (
	"log/slog"
	"net/http"
	"time"

	"hotelreservation/app/echoServer/controller"
	"hotelreservation/model"
	rs "hotelreservation/service/reservation"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc rs.Service
	Log *slog.Logger
	Now func() time.Time
}

func (h *Controller) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// GET /api/reservations
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return controller.ServiceError(c, h.Log, "reservation list", err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"reservations": rows,
		"total":        len(rows),
	})
}

// POST /api/reservations
func (h *Controller) Create(c echo.Context) error {
	var req CreateReservationReq
	if ok, err := controller.BindValid(c, h.Log, &req); !ok {
		return err
	}
	checkIn, err := model.ParseTimestamp(req.CheckIn)
	if err != nil {
		return controller.Fail(c, http.StatusBadRequest, "invalid checkIn")
	}
	checkOut, err := model.ParseTimestamp(req.CheckOut)
	if err != nil {
		return controller.Fail(c, http.StatusBadRequest, "invalid checkOut")
	}

	out, err := h.Svc.Create(c.Request().Context(), rs.CreateInput{
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		RoomID:          req.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		NumberOfGuests:  req.NumberOfGuests,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		return controller.ServiceError(c, h.Log, "reservation create", err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":     true,
		"reservation": out,
		"message":     "Reservation created successfully",
	})
}

// GET /api/reservations/:id
func (h *Controller) Get(c echo.Context) error {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return controller.Fail(c, http.StatusBadRequest, "invalid id")
	}
	out, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return controller.ServiceError(c, h.Log, "reservation get", err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "reservation": out})
}

// PUT /api/reservations/:id
func (h *Controller) Update(c echo.Context) error {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return controller.Fail(c, http.StatusBadRequest, "invalid id")
	}
	var req UpdateReservationReq
	if ok, err := controller.BindValid(c, h.Log, &req); !ok {
		return err
	}

	in := rs.UpdateInput{
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		NumberOfGuests:  req.NumberOfGuests,
		Status:          req.Status,
		SpecialRequests: req.SpecialRequests,
	}
	if req.CheckIn != nil {
		t, err := model.ParseTimestamp(*req.CheckIn)
		if err != nil {
			return controller.Fail(c, http.StatusBadRequest, "invalid checkIn")
		}
		in.CheckIn = &t
	}
	if req.CheckOut != nil {
		t, err := model.ParseTimestamp(*req.CheckOut)
		if err != nil {
			return controller.Fail(c, http.StatusBadRequest, "invalid checkOut")
		}
		in.CheckOut = &t
	}

	out, err := h.Svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return controller.ServiceError(c, h.Log, "reservation update", err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"reservation": out,
		"message":     "Reservation updated successfully",
	})
}

// DELETE /api/reservations/:id
func (h *Controller) Delete(c echo.Context) error {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return controller.Fail(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return controller.ServiceError(c, h.Log, "reservation delete", err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Reservation deleted successfully"})
}

// GET /api/reservations/:id/room
func (h *Controller) Room(c echo.Context) error {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return controller.Fail(c, http.StatusBadRequest, "invalid id")
	}
	out, err := h.Svc.RoomByReservation(c.Request().Context(), id)
	if err != nil {
		return controller.ServiceError(c, h.Log, "reservation room", err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"roomNumber":  out.RoomNumber,
		"reservation": out.Reservation,
	})
}

// GET /api/reservations/:id/checkout
func (h *Controller) Checkout(c echo.Context) error {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return controller.Fail(c, http.StatusBadRequest, "invalid id")
	}
	out, err := h.Svc.CheckoutTiming(c.Request().Context(), id, h.now())
	if err != nil {
		return controller.ServiceError(c, h.Log, "reservation checkout", err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "timing": out})
}
