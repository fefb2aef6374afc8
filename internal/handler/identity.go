package handler

import (
	"net/http"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// tokenIdentity is the caller identity carried by a verified bearer token.
type tokenIdentity struct {
	UserID   uint
	Username string
}

// currentIdentity extracts the verified token claims placed in the context by
// the JWT middleware.
func currentIdentity(c echo.Context) (*tokenIdentity, error) {
	token, ok := c.Get("user").(*jwtv5.Token)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	username, _ := claims["sub"].(string)
	userID, _ := claims["user_id"].(float64)
	if username == "" || userID == 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	return &tokenIdentity{UserID: uint(userID), Username: username}, nil
}
