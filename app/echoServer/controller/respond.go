// app/echoServer/controller/respond.go
package controller

import (
	"log/slog"
	"net/http"
	"strconv"

	"hotelreservation/service/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ParseID reads a positive integer path parameter.
func ParseID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func Fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}

// BindValid binds the body into req and runs the echo validator. On failure
// it has already written the 400 response and returns false.
func BindValid(c echo.Context, log *slog.Logger, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		log.Warn("bind failed", "path", c.Path(), "err", err)
		return false, Fail(c, http.StatusBadRequest, "invalid JSON")
	}
	if err := c.Validate(req); err != nil {
		log.Warn("validation failed", "path", c.Path(), "err", err)
		return false, c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "validation error",
			"errors":  fieldErrors(err),
		})
	}
	return true, nil
}

func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += " " + fe.Param()
		}
		out[fe.Field()] = rule
	}
	return out
}

// ServiceError maps a service error onto the response envelope. conflict is
// the status used for CONFLICT errors.
func ServiceError(c echo.Context, log *slog.Logger, op string, err error, conflict int) error {
	switch apperr.Code(err) {
	case apperr.ErrValidation:
		return Fail(c, http.StatusBadRequest, apperr.Message(err))
	case apperr.ErrNotFound:
		return Fail(c, http.StatusNotFound, apperr.Message(err))
	case apperr.ErrConflict:
		return Fail(c, conflict, apperr.Message(err))
	default:
		log.Error(op,
			"err", err,
			"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"path", c.Path(),
			"method", c.Request().Method,
		)
		return Fail(c, http.StatusInternalServerError, "internal error")
	}
}
