package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
)

// ctxActor extracts the identity injected by the Auth middleware and performs
// a fast-fail check before any service call: both subject and role must be
// present, a token missing either is structurally valid but unusable.
func ctxActor(c echo.Context) (ports.Actor, error) {
	sub, _ := c.Get("sub").(string)
	role, _ := c.Get("role").(string)
	if sub == "" || role == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	return ports.Actor{ID: sub, Role: domain.Role(role)}, nil
}
