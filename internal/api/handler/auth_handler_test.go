package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
)

// stubAuthService returns canned results and records the inputs it saw.
type stubAuthService struct {
	registerResult *ports.RegisterResult
	authResult     *ports.AuthResult
	tokenPair      *ports.TokenPair
	err            error

	lastEmail    string
	lastCode     string
	lastUsername string
	lastRefresh  string
}

func (s *stubAuthService) Register(_ context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	s.lastUsername = in.Username
	s.lastEmail = in.Email
	return s.registerResult, s.err
}

func (s *stubAuthService) VerifyEmail(_ context.Context, email, code string) (*ports.AuthResult, error) {
	s.lastEmail, s.lastCode = email, code
	return s.authResult, s.err
}

func (s *stubAuthService) ResendVerification(_ context.Context, email string) error {
	s.lastEmail = email
	return s.err
}

func (s *stubAuthService) Login(_ context.Context, username, _ string) (*ports.AuthResult, error) {
	s.lastUsername = username
	return s.authResult, s.err
}

func (s *stubAuthService) ForgotPassword(_ context.Context, email string) error {
	s.lastEmail = email
	return s.err
}

func (s *stubAuthService) VerifyResetCode(_ context.Context, email, code string) error {
	s.lastEmail, s.lastCode = email, code
	return s.err
}

func (s *stubAuthService) ResetPassword(_ context.Context, email, code, _ string) error {
	s.lastEmail, s.lastCode = email, code
	return s.err
}

func (s *stubAuthService) Refresh(_ context.Context, refreshToken string) (*ports.TokenPair, error) {
	s.lastRefresh = refreshToken
	return s.tokenPair, s.err
}

func (s *stubAuthService) Logout(_ context.Context, refreshToken string) error {
	s.lastRefresh = refreshToken
	return s.err
}

func invokeJSON(t *testing.T, fn echo.HandlerFunc, payload string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, fn(e.NewContext(req, rec))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestRegisterHandler_Success(t *testing.T) {
	stub := &stubAuthService{
		registerResult: &ports.RegisterResult{
			User:                      &domain.User{ID: "u1", Username: "alice", Email: "alice@example.com"},
			EmailVerificationRequired: true,
		},
	}
	h := NewAuthHandler(stub)

	rec, err := invokeJSON(t, h.Register, `{
		"username": "alice",
		"email": "alice@example.com",
		"password": "correct-horse-battery",
		"password2": "correct-horse-battery"
	}`)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want 201", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["message"] != "Registration successful! Please check your email for verification code." {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if body["email_verification_required"] != true {
		t.Fatal("email_verification_required missing")
	}
	user, _ := body["user"].(map[string]any)
	if user["username"] != "alice" {
		t.Fatalf("unexpected user payload: %v", body["user"])
	}
}

func TestRegisterHandler_Validation(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	cases := []struct {
		name    string
		payload string
	}{
		{"password mismatch", `{"username":"alice","email":"a@b.com","password":"one-password","password2":"another-password"}`},
		{"short username", `{"username":"al","email":"a@b.com","password":"p@ssw0rd!","password2":"p@ssw0rd!"}`},
		{"bad email", `{"username":"alice","email":"nope","password":"p@ssw0rd!","password2":"p@ssw0rd!"}`},
		{"missing password", `{"username":"alice","email":"a@b.com"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := invokeJSON(t, h.Register, tc.payload)
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
		})
	}
}

func TestVerifyEmailHandler_Success(t *testing.T) {
	stub := &stubAuthService{
		authResult: &ports.AuthResult{
			User:   &domain.User{ID: "u1", Username: "alice", EmailVerified: true},
			Tokens: ports.TokenPair{Access: "a", Refresh: "r"},
		},
	}
	h := NewAuthHandler(stub)

	rec, err := invokeJSON(t, h.VerifyEmail, `{"email":"alice@example.com","code":"123456"}`)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	tokens, _ := body["tokens"].(map[string]any)
	if tokens["access"] != "a" || tokens["refresh"] != "r" {
		t.Fatalf("tokens missing: %v", body)
	}
	if stub.lastCode != "123456" {
		t.Fatalf("code not forwarded: %q", stub.lastCode)
	}
}

func TestVerifyEmailHandler_CodeShape(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	for _, payload := range []string{
		`{"email":"a@b.com","code":"12345"}`,
		`{"email":"a@b.com","code":"abcdef"}`,
	} {
		_, err := invokeJSON(t, h.VerifyEmail, payload)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %v", payload, err)
		}
	}
}

func TestLoginHandler_PropagatesServiceError(t *testing.T) {
	stub := &stubAuthService{err: &domain.InvalidCredentialsError{AttemptsRemaining: 3}}
	h := NewAuthHandler(stub)

	_, err := invokeJSON(t, h.Login, `{"username":"alice","password":"wrong"}`)
	var ice *domain.InvalidCredentialsError
	if !errors.As(err, &ice) {
		t.Fatalf("service error must propagate to the error handler, got %v", err)
	}
}

func TestForgotPasswordHandler_ConstantResponse(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	rec, err := invokeJSON(t, h.ForgotPassword, `{"email":"anyone@example.com"}`)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	body := decodeBody(t, rec)
	if body["message"] != "If this email is registered, a reset code has been sent" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestVerifyResetCodeHandler_EchoesInput(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	rec, err := invokeJSON(t, h.VerifyResetCode, `{"email":"alice@example.com","code":"654321"}`)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	body := decodeBody(t, rec)
	if body["email"] != "alice@example.com" || body["code"] != "654321" {
		t.Fatalf("reset step inputs not echoed: %v", body)
	}
}

func TestResetPasswordHandler_RequiresMatchingPasswords(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	_, err := invokeJSON(t, h.ResetPassword, `{
		"email":"alice@example.com","code":"654321",
		"new_password":"one-password","new_password2":"another-password"
	}`)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestRefreshHandler_Success(t *testing.T) {
	stub := &stubAuthService{tokenPair: &ports.TokenPair{Access: "a2", Refresh: "r2"}}
	h := NewAuthHandler(stub)

	rec, err := invokeJSON(t, h.Refresh, `{"refresh":"r1"}`)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if stub.lastRefresh != "r1" {
		t.Fatalf("refresh token not forwarded: %q", stub.lastRefresh)
	}
	body := decodeBody(t, rec)
	tokens, _ := body["tokens"].(map[string]any)
	if tokens["refresh"] != "r2" {
		t.Fatalf("rotated pair missing: %v", body)
	}
}

func TestLogoutHandler_Success(t *testing.T) {
	stub := &stubAuthService{}
	h := NewAuthHandler(stub)

	rec, err := invokeJSON(t, h.Logout, `{"refresh":"r1"}`)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Logged out successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}
