package server

import (
	"net/http"

	"github.com/clouddrop/clouddrop/internal/server/serializer"
	"github.com/labstack/echo/v4"
)

// dashboard contains the handlers feeding the dashboard UI.
type dashboard struct{}

// Show renders the identity and quota payload of the signed-in user.
func (h *dashboard) Show(c echo.Context) error {
	return c.JSON(http.StatusOK, serializer.Dashboard(currentUser(c)))
}
