package dashboard

import (
	"log/slog"
	"net/http"
	"time"

	"hotelreservation/app/echoServer/controller"
	dashboardsvc "hotelreservation/service/dashboard"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc dashboardsvc.Service
	Log *slog.Logger
}

// GET /api/dashboard
func (h *Controller) Summary(c echo.Context) error {
	sum, err := h.Svc.Summary(c.Request().Context(), time.Now())
	if err != nil {
		return controller.ServiceError(c, h.Log, "dashboard summary", err, http.StatusConflict)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "summary": sum, "menu": h.Svc.Menu()})
}

// GET /api/dashboard/menu
func (h *Controller) Menu(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "menu": h.Svc.Menu()})
}

// GET /api/dashboard/views/:view
func (h *Controller) View(c echo.Context) error {
	it, err := h.Svc.Describe(c.Param("view"))
	if err != nil {
		return controller.ServiceError(c, h.Log, "dashboard view", err, http.StatusConflict)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "view": it})
}
