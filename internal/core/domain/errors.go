package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors shared across services. Handlers map them to HTTP status
// codes in the central error handler; nothing below the API layer knows about
// HTTP.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrAlreadyVerified = errors.New("email already verified")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("old password is incorrect")
	ErrAccountLocked      = errors.New("account locked")
	ErrEmailNotVerified   = errors.New("email not verified")

	ErrInvalidCode = errors.New("invalid verification code")
	ErrExpiredCode = errors.New("verification code has expired")

	ErrInvalidToken = errors.New("invalid or revoked token")

	// ErrMailDelivery is retryable: the operation failed because the
	// verification email could not be sent, not because of caller input.
	ErrMailDelivery = errors.New("failed to send email")

	ErrForbidden   = errors.New("access forbidden")
	ErrInvalidRole = errors.New("invalid role")

	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryExists       = errors.New("category already exists")
	ErrPostNotFound         = errors.New("post not found")
	ErrPostClosed           = errors.New("post is closed")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// LockedError reports a rejected login against a locked account. It unwraps
// to ErrAccountLocked so callers can match with errors.Is. Triggered is true
// only on the failed attempt that crossed the lockout threshold.
type LockedError struct {
	Until     time.Time
	Triggered bool
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked, try again in %d minutes", e.RemainingMinutes())
}

func (e *LockedError) Unwrap() error { return ErrAccountLocked }

// RemainingMinutes is the lock time left, rounded up so the user is never
// told zero minutes while still locked.
func (e *LockedError) RemainingMinutes() int {
	rem := time.Until(e.Until)
	if rem <= 0 {
		return 0
	}
	return int((rem + time.Minute - 1) / time.Minute)
}

// InvalidCredentialsError carries the attempts left before lockout. The same
// error shape is used for unknown usernames so account existence never leaks;
// in that case AttemptsRemaining is negative and is omitted from responses.
type InvalidCredentialsError struct {
	AttemptsRemaining int
}

func (e *InvalidCredentialsError) Error() string { return ErrInvalidCredentials.Error() }
func (e *InvalidCredentialsError) Unwrap() error { return ErrInvalidCredentials }

// VerificationRequiredError rejects a correct-password login on an unverified
// account, surfacing the email so the client can offer a resend prompt.
type VerificationRequiredError struct {
	Email string
}

func (e *VerificationRequiredError) Error() string { return ErrEmailNotVerified.Error() }
func (e *VerificationRequiredError) Unwrap() error { return ErrEmailNotVerified }

// PasswordPolicyError aggregates every policy rule the candidate password
// violated, mirroring how the registration form renders them.
type PasswordPolicyError struct {
	Reasons []string
}

func (e *PasswordPolicyError) Error() string {
	return "password policy: " + strings.Join(e.Reasons, "; ")
}
