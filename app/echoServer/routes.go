package echoServer

import (
	"hotelreservation/app/echoServer/controller/auth"
	"hotelreservation/app/echoServer/controller/dashboard"
	"hotelreservation/app/echoServer/controller/health"
	"hotelreservation/app/echoServer/controller/reservation"
	"hotelreservation/app/echoServer/controller/room"

	"github.com/labstack/echo/v4"
)

type C struct {
	Auth        *auth.Controller
	Reservation *reservation.Controller
	Room        *room.Controller
	Dashboard   *dashboard.Controller
	Health      *health.Controller

	JWTSecret    string
	AuthRequired bool
}

func Register(e *echo.Echo, c C) {
	jwtMW := JWTAuth(c.JWTSecret)

	// Front desk routes are authenticated unless AUTH_REQUIRED=false.
	var desk []echo.MiddlewareFunc
	if c.AuthRequired {
		desk = append(desk, jwtMW)
	}

	api := e.Group("/api")

	// Public
	api.GET("/health", c.Health.Check)
	api.POST("/auth/register", c.Auth.Register)
	api.POST("/auth/login", c.Auth.Login)

	// Always authenticated
	api.GET("/auth/me", c.Auth.Me, jwtMW)
	api.POST("/rooms", c.Room.Create, jwtMW) // admin

	// Reservations
	api.GET("/reservations", c.Reservation.List, desk...)
	api.POST("/reservations", c.Reservation.Create, desk...)
	api.GET("/reservations/:id", c.Reservation.Get, desk...)
	api.PUT("/reservations/:id", c.Reservation.Update, desk...)
	api.DELETE("/reservations/:id", c.Reservation.Delete, desk...)
	api.GET("/reservations/:id/room", c.Reservation.Room, desk...)
	api.GET("/reservations/:id/checkout", c.Reservation.Checkout, desk...)

	// Rooms
	api.GET("/rooms", c.Room.List, desk...)
	api.GET("/rooms/:id", c.Room.Detail, desk...)

	// Dashboard
	api.GET("/dashboard", c.Dashboard.Summary, desk...)
	api.GET("/dashboard/menu", c.Dashboard.Menu, desk...)
	api.GET("/dashboard/views/:view", c.Dashboard.View, desk...)
}
