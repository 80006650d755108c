package ports

import (
	"context"

	"github.com/forka/forum-backend/internal/core/domain"
)

// RegisterInput carries the sanitized fields for a new account. Password
// confirmation is checked at the transport layer; the service only sees the
// agreed password.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	Bio         string
	PhoneNumber string
}

// RegisterResult is returned on successful registration. The account cannot
// log in until the emailed code is verified.
type RegisterResult struct {
	User                      *domain.User
	EmailVerificationRequired bool
}

// TokenPair is an access/refresh bearer token pair minted by the TokenIssuer.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResult is returned by operations that end in an authenticated session.
type AuthResult struct {
	User   *domain.User
	Tokens TokenPair
}

// AuthService is the account security state machine: registration, email
// verification, login with lockout, and password reset.
//
// ResendVerification and ForgotPassword return nil when no account matches
// the email, so callers can render an identical response whether or not the
// address is registered.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)
	VerifyEmail(ctx context.Context, email, code string) (*AuthResult, error)
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	ForgotPassword(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}
