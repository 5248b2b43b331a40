package auth

import (
	"log/slog"
	"net/http"

	"hotelreservation/app/echoServer/controller"
	"hotelreservation/app/echoServer/jwtx"
	"hotelreservation/model"
	authsvc "hotelreservation/service/auth"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc authsvc.Service
	Log *slog.Logger
}

// Register a new staff user
// @Summary      Register user
// @Description  Register a front-desk user with username uniqueness and validation
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.RegisterReq  true  "Register payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  map[string]any "username already taken"
// @Failure      500  {object}  map[string]any "internal server error"
// @Router       /api/auth/register [post]
func (ct *Controller) Register(c echo.Context) error {
	var req model.RegisterReq
	if ok, err := controller.BindValid(c, ct.Log, &req); !ok {
		return err
	}

	u, token, err := ct.Svc.Register(c.Request().Context(), req)
	if err != nil {
		switch authsvc.Code(err) {
		case authsvc.ErrUsernameTaken:
			return controller.Fail(c, http.StatusConflict, "username already taken")
		case authsvc.ErrBadInput:
			return controller.Fail(c, http.StatusBadRequest, "bad input")
		default:
			ct.Log.Error("register failed",
				"err", err,
				"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"path", c.Path(),
				"method", c.Request().Method,
			)
			return controller.Fail(c, http.StatusInternalServerError, "register failed")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "registered",
		"user":    u,
		"token":   token,
	})
}

// Login
// @Summary      Login
// @Description  Login with username + password, returns JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /api/auth/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if ok, err := controller.BindValid(c, ct.Log, &req); !ok {
		return err
	}

	u, token, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		switch authsvc.Code(err) {
		case authsvc.ErrInvalidCreds:
			return controller.Fail(c, http.StatusUnauthorized, "invalid username or password")
		case authsvc.ErrBadInput:
			ct.Log.Warn("bad input", "path", c.Path(), "err", err)
			return controller.Fail(c, http.StatusBadRequest, "bad input")
		default:
			ct.Log.Error("login failed",
				"err", err,
				"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"path", c.Path(),
				"method", c.Request().Method,
			)
			return controller.Fail(c, http.StatusInternalServerError, "login failed")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "login success",
		"user":    u,
		"token":   token,
	})
}

// Me echoes the verified token claims.
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /api/auth/me [get]
func (ct *Controller) Me(c echo.Context) error {
	claims, err := jwtx.ClaimsFromContext(c)
	if err != nil {
		return controller.Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, _ := claims.UserID()
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user": echo.Map{
			"id":       id,
			"username": claims.Username,
			"role":     claims.Role,
		},
	})
}
