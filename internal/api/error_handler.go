package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/forka/forum-backend/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Attaches the contextual fields some auth failures carry
//     (attempts_remaining, locked_until, email_verification_required).
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", ...}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, map[string]any) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, map[string]any{"error": fmt.Sprintf("%v", he.Message)}
	}

	// Auth failures carrying extra fields for the client.
	var locked *domain.LockedError
	if errors.As(err, &locked) {
		return http.StatusForbidden, map[string]any{
			"error":        fmt.Sprintf("Account locked. Try again in %d minutes.", locked.RemainingMinutes()),
			"locked_until": locked.Until.UTC().Format(time.RFC3339),
		}
	}

	var badCreds *domain.InvalidCredentialsError
	if errors.As(err, &badCreds) {
		body := map[string]any{"error": "Invalid credentials"}
		// A negative count means the username did not resolve to an account;
		// omitting the field there would leak existence, so the service only
		// sets it for real accounts.
		if badCreds.AttemptsRemaining >= 0 {
			body["attempts_remaining"] = badCreds.AttemptsRemaining
		}
		return http.StatusUnauthorized, body
	}

	var unverified *domain.VerificationRequiredError
	if errors.As(err, &unverified) {
		return http.StatusForbidden, map[string]any{
			"error":                       "Email not verified",
			"email_verification_required": true,
			"email":                       unverified.Email,
		}
	}

	var policy *domain.PasswordPolicyError
	if errors.As(err, &policy) {
		return http.StatusBadRequest, map[string]any{"error": policy.Reasons}
	}

	// Known sentinels → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		return http.StatusBadRequest, errBody("Invalid email format")
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, errBody("Email already registered")
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusBadRequest, errBody("Username already taken")
	case errors.Is(err, domain.ErrAlreadyVerified):
		return http.StatusBadRequest, errBody("Email already verified")
	case errors.Is(err, domain.ErrInvalidCode):
		return http.StatusBadRequest, errBody("Invalid verification code")
	case errors.Is(err, domain.ErrExpiredCode):
		return http.StatusBadRequest, errBody("Verification code has expired")
	case errors.Is(err, domain.ErrWrongPassword):
		return http.StatusBadRequest, errBody("Old password is incorrect")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errBody("Invalid credentials")
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, errBody("Invalid or expired token")
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errBody("forbidden")
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, errBody("invalid role")
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errBody("User not found")
	case errors.Is(err, domain.ErrPostNotFound):
		return http.StatusNotFound, errBody("Post not found")
	case errors.Is(err, domain.ErrPostClosed):
		return http.StatusForbidden, errBody("Post is closed for new comments")
	case errors.Is(err, domain.ErrCommentNotFound):
		return http.StatusNotFound, errBody("Comment not found")
	case errors.Is(err, domain.ErrCategoryNotFound):
		return http.StatusNotFound, errBody("Category not found")
	case errors.Is(err, domain.ErrCategoryExists):
		return http.StatusConflict, errBody("Category already exists")
	case errors.Is(err, domain.ErrNotificationNotFound):
		return http.StatusNotFound, errBody("Notification not found")
	case errors.Is(err, domain.ErrMailDelivery):
		return http.StatusInternalServerError, errBody("Failed to send verification email. Please try again.")
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errBody("internal server error")
}

func errBody(msg string) map[string]any {
	return map[string]any{"error": msg}
}
