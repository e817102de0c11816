package auth

import (
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// userIDKey is where the gate stores the authenticated user id on the
// echo context.
const userIDKey = "userID"

// Gate protects a route group. Signature and expiry are enforced; any
// failure, whatever its cause, is rejected with the same 401 body.
// OPTIONS pre-flight requests bypass the gate.
func Gate(tokens *TokenService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		Skipper: isPreflight,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return tokens.Verify(auth)
		},
		SuccessHandler: func(c echo.Context) {
			if claims, ok := c.Get("user").(*Claims); ok {
				c.Set(userIDKey, claims.UserID)
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errUnauthorized()
		},
	})
}

// DecodeGate is the unverified variant used only by the refresh
// endpoint: the bearer token is decoded but neither its signature nor
// its expiry is checked, so a just-expired access token still yields
// the user id.
func DecodeGate(tokens *TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isPreflight(c) {
				return next(c)
			}
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return errUnauthorized()
			}
			claims, err := tokens.Decode(token)
			if err != nil {
				return errUnauthorized()
			}
			c.Set(userIDKey, claims.UserID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id established by the gate.
func UserID(c echo.Context) uint {
	id, _ := c.Get(userIDKey).(uint)
	return id
}

func isPreflight(c echo.Context) bool {
	return c.Request().Method == http.MethodOptions
}

func errUnauthorized() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
}
