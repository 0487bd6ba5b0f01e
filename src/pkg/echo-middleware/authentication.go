// Package echomw provides the Echo middlewares of the FinSight web server.
package echomw

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

const (
	// Env var holding the token for the JSON API.
	EnvAPIToken = "FINSIGHT_API_TOKEN"

	// Realm for WWW-Authenticate header.
	authRealm = "finsight-api"
)

/*
RequireBearerToken validates "Authorization: Bearer <token>" against the
token returned by expectedToken. An empty expected token rejects every
request.
*/
func RequireBearerToken(expectedToken func() string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			expected := strings.TrimSpace(expectedToken())
			if expected == "" {
				return unauthorized(c)
			}

			received, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				return unauthorized(c)
			}

			if subtle.ConstantTimeCompare([]byte(received), []byte(expected)) != 1 {
				return unauthorized(c)
			}

			return next(c)
		}
	}
}

// RequireAPIToken checks requests against FINSIGHT_API_TOKEN, read on every request.
func RequireAPIToken() echo.MiddlewareFunc {
	return RequireBearerToken(func() string {
		return os.Getenv(EnvAPIToken)
	})
}

// The scheme is case-insensitive; surrounding spaces are ignored.
func bearerToken(header string) (token string, ok bool) {
	const bearer = "bearer "

	header = strings.TrimSpace(header)
	if len(header) < len(bearer) || !strings.EqualFold(header[:len(bearer)], bearer) {
		return "", false
	}

	token = strings.TrimSpace(header[len(bearer):])
	return token, token != ""
}

func unauthorized(c echo.Context) error {
	LogRouteAccess(c, tl.Info, "Unauthorized access attempt", palette.Yellow)

	// Avoids browser basic-auth popups.
	c.Response().Header().Set("WWW-Authenticate", `Bearer realm="`+authRealm+`"`)
	return c.JSON(http.StatusUnauthorized, map[string]string{
		"error": "unauthorized",
	})
}
