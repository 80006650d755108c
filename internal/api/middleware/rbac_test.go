package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/forka/forum-backend/internal/core/domain"
)

func invokeRBAC(t *testing.T, role string, action domain.Action) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	handler := RBAC(action)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

func TestRBAC(t *testing.T) {
	cases := []struct {
		name   string
		role   string
		action domain.Action
		want   int
	}{
		{"admin manages categories", "admin", domain.ActionManageCategories, http.StatusOK},
		{"moderator cannot manage categories", "moderator", domain.ActionManageCategories, http.StatusForbidden},
		{"user cannot manage users", "user", domain.ActionManageUsers, http.StatusForbidden},
		{"admin manages users", "admin", domain.ActionManageUsers, http.StatusOK},
		{"moderator pins posts", "moderator", domain.ActionPinPost, http.StatusOK},
		{"missing role claim", "", domain.ActionCreateContent, http.StatusForbidden},
		{"unknown role", "superuser", domain.ActionCreateContent, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := invokeRBAC(t, tc.role, tc.action); rec.Code != tc.want {
				t.Fatalf("got %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
