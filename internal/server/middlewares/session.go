package middlewares

import (
	"net/http"
	"strings"

	"github.com/clouddrop/clouddrop/internal/cderror"
	"github.com/clouddrop/clouddrop/internal/session"
	"github.com/labstack/echo/v4"
)

const (
	// CurrentUserContextKey is the key to retrieve the current_user from echo.Context.
	CurrentUserContextKey = "current_user"
	// CurrentSessionContextKey is the key to retrieve the current_session from echo.Context.
	CurrentSessionContextKey = "current_session"
)

// Session returns a session auth middleware.
// It validates the bearer token against the live session and stores
// current_session and current_user into echo.Context.
func Session(m session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := token(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return unauthorized(c)
			}

			// Find, validate and store current_session for handlers.
			// An expired session is logged out by the manager on this read.
			sess, err := m.Validate(token)
			if err != nil {
				return err
			}
			c.Set(CurrentSessionContextKey, sess)

			// The snapshot is the sanitized identity of the signed-in user.
			user := m.CurrentUser()
			if user == nil {
				return unauthorized(c)
			}
			c.Set(CurrentUserContextKey, user)

			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"error": echo.Map{
			"tag":     cderror.TagInvalidCredentials,
			"message": "Invalid login credentials.",
		},
	})
}

func token(authorization string) string {
	parts := strings.Split(authorization, " ")
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
