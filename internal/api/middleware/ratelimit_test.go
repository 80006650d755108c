package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/forka/forum-backend/pkg/logger"
)

func invokeRateLimit(t *testing.T, allow AllowFunc) *httptest.ResponseRecorder {
	t.Helper()
	logger.Init(logger.Options{Level: "error"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RateLimit(allow, "login", 5, time.Minute, logger.Get())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	var gotScope, gotSubject string
	rec := invokeRateLimit(t, func(_ context.Context, scope, subject string, limit int64, window time.Duration) (bool, error) {
		gotScope, gotSubject = scope, subject
		return true, nil
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotScope != "login" || gotSubject == "" {
		t.Fatalf("limiter called with scope=%q subject=%q", gotScope, gotSubject)
	}
}

func TestRateLimit_DeniesOverLimit(t *testing.T) {
	rec := invokeRateLimit(t, func(context.Context, string, string, int64, time.Duration) (bool, error) {
		return false, nil
	})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestRateLimit_FailsOpenOnBackendError(t *testing.T) {
	rec := invokeRateLimit(t, func(context.Context, string, string, int64, time.Duration) (bool, error) {
		return false, errors.New("redis down")
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("limiter outage must not block requests, got %d", rec.Code)
	}
}
