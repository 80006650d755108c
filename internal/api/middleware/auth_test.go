package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func accessClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":      "u1",
		"username": "alice",
		"role":     "user",
		"type":     "access",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
}

func invokeAuth(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Auth(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func TestAuth_ValidTokenInjectsClaims(t *testing.T) {
	token := signToken(t, testSecret, accessClaims())

	c, err := invokeAuth(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Get("sub") != "u1" || c.Get("username") != "alice" || c.Get("role") != "user" {
		t.Fatalf("claims not injected: sub=%v username=%v role=%v", c.Get("sub"), c.Get("username"), c.Get("role"))
	}
}

func TestAuth_Rejections(t *testing.T) {
	expired := accessClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	refresh := accessClaims()
	refresh["type"] = "refresh"

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", accessClaims())},
		{"expired", "Bearer " + signToken(t, testSecret, expired)},
		{"refresh token", "Bearer " + signToken(t, testSecret, refresh)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := invokeAuth(t, tc.header)
			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if he.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", he.Code)
			}
		})
	}
}

func TestAuth_RejectsUnsignedAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, accessClaims())
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = invokeAuth(t, "Bearer "+signed)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("alg=none must be rejected, got %v", err)
	}
}
