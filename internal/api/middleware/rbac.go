package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forka/forum-backend/internal/core/domain"
)

// RBAC rejects callers whose role is not allowed the given action. Services
// re-check ownership-sensitive decisions; this gate handles the purely
// role-based routes (admin and moderator surfaces).
func RBAC(action domain.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !domain.Can(domain.Role(role), action, false) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
