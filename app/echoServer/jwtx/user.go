// app/echoServer/jwtx/user.go
package jwtx

import (
	"errors"

	"hotelreservation/model"
	jwtutil "hotelreservation/util/jwt"

	"github.com/labstack/echo/v4"
)

// ContextKey is where echo-jwt stores the parsed claims.
const ContextKey = "user"

func ClaimsFromContext(c echo.Context) (*jwtutil.Claims, error) {
	claims, ok := c.Get(ContextKey).(*jwtutil.Claims)
	if !ok || claims == nil {
		return nil, errors.New("no jwt claims in context")
	}
	return claims, nil
}

func UserIDFromContext(c echo.Context) (int64, error) {
	claims, err := ClaimsFromContext(c)
	if err != nil {
		return 0, err
	}
	id, err := claims.UserID()
	if err != nil {
		return 0, errors.New("sub missing in claims")
	}
	return id, nil
}

func IsAdmin(c echo.Context) bool {
	claims, err := ClaimsFromContext(c)
	return err == nil && claims.Role == string(model.RoleAdmin)
}
