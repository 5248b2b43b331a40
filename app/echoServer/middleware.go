// app/echoServer/middleware.go
package echoServer

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"hotelreservation/app/echoServer/jwtx"
	"hotelreservation/app/echoServer/validation"
	jwtutil "hotelreservation/util/jwt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

type MiddlewareOpts struct {
	RateLimitRPS float64
	Log          *slog.Logger
	Validator    *validator.Validate
}

func RegisterMiddlewares(e *echo.Echo, o MiddlewareOpts) {
	if o.Log == nil {
		o.Log = slog.Default()
	}
	e.HTTPErrorHandler = ErrorHandler(o.Log)
	e.Validator = validation.New(o.Validator)

	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))

	e.Use(Slog(o.Log))
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("1M"))

	if o.RateLimitRPS > 0 {
		store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(o.RateLimitRPS),
			Burst:     int(o.RateLimitRPS * 2),
			ExpiresIn: 3 * time.Minute,
		})
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: store,
			DenyHandler: func(c echo.Context, _ string, _ error) error {
				return c.JSON(http.StatusTooManyRequests, echo.Map{"success": false, "message": "too many requests"})
			},
		}))
	}
}

func Slog(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			lat := time.Since(start).Milliseconds()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			log.Info("http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", lat,
				"req_id", rid,
				"ip", c.RealIP(),
				"ua", c.Request().UserAgent(),
			)
			return nil
		}
	}
}

// JWTAuth verifies the bearer token and stores its claims under jwtx.ContextKey.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  jwtx.ContextKey,
		TokenLookup: "header:Authorization",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return jwtutil.ParseAuth(auth, secret)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		},
	})
}

// ErrorHandler renders framework and unhandled errors in the response envelope.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := "internal error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		} else {
			log.Error("unhandled error",
				"err", err,
				"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"path", c.Path(),
				"method", c.Request().Method,
			)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, echo.Map{"success": false, "message": msg})
		}
		if werr != nil {
			log.Error("write error response", "err", werr)
		}
	}
}
