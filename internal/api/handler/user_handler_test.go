package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
)

// stubUserService records the last change-password call and returns canned
// results.
type stubUserService struct {
	lastOld string
	lastNew string
	actor   ports.Actor
	err     error
}

func (s *stubUserService) Get(context.Context, string) (*domain.User, error) { return nil, s.err }
func (s *stubUserService) GetByUsername(context.Context, string) (*domain.User, error) {
	return nil, s.err
}
func (s *stubUserService) UpdateProfile(context.Context, ports.Actor, ports.UpdateProfileInput) (*domain.User, error) {
	return nil, s.err
}
func (s *stubUserService) List(context.Context, ports.Actor, int64, int64) ([]*domain.User, int64, error) {
	return nil, 0, s.err
}
func (s *stubUserService) UpdateRole(context.Context, ports.Actor, string, domain.Role) (*domain.User, error) {
	return nil, s.err
}

func (s *stubUserService) ChangePassword(_ context.Context, actor ports.Actor, oldPassword, newPassword string) error {
	s.actor = actor
	s.lastOld = oldPassword
	s.lastNew = newPassword
	return s.err
}

// invokeAuthed runs a handler with the claims the auth middleware would have
// injected.
func invokeAuthed(t *testing.T, fn echo.HandlerFunc, payload string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("sub", "u1")
	c.Set("username", "alice")
	c.Set("role", string(domain.RoleUser))
	return rec, fn(c)
}

func TestChangePasswordHandler_Success(t *testing.T) {
	stub := &stubUserService{}
	h := NewUserHandler(stub)

	rec, err := invokeAuthed(t, h.ChangePassword, `{
		"old_password": "original-pass-1",
		"new_password": "brand-new-pass-2",
		"new_password2": "brand-new-pass-2"
	}`)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["message"]; got != "Password changed successfully" {
		t.Fatalf("unexpected message: %v", got)
	}
	if stub.actor.ID != "u1" || stub.lastOld != "original-pass-1" || stub.lastNew != "brand-new-pass-2" {
		t.Fatalf("service called with %+v %q %q", stub.actor, stub.lastOld, stub.lastNew)
	}
}

func TestChangePasswordHandler_Validation(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	cases := map[string]string{
		"mismatched confirmation": `{"old_password": "a", "new_password": "brand-new-pass-2", "new_password2": "other"}`,
		"missing old password":    `{"new_password": "brand-new-pass-2", "new_password2": "brand-new-pass-2"}`,
		"missing confirmation":    `{"old_password": "a", "new_password": "brand-new-pass-2"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := invokeAuthed(t, h.ChangePassword, payload)
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
		})
	}
}

func TestChangePasswordHandler_WrongOldPassword(t *testing.T) {
	h := NewUserHandler(&stubUserService{err: domain.ErrWrongPassword})

	_, err := invokeAuthed(t, h.ChangePassword, `{
		"old_password": "not-it",
		"new_password": "brand-new-pass-2",
		"new_password2": "brand-new-pass-2"
	}`)
	if !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword to propagate, got %v", err)
	}
}

func TestChangePasswordHandler_RequiresClaims(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.ChangePassword(e.NewContext(req, rec))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %v", err)
	}
}
