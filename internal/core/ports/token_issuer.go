package ports

import (
	"context"

	"github.com/forka/forum-backend/internal/core/domain"
)

// TokenIssuer mints and tracks bearer tokens for verified identities. The
// account security service treats it as an opaque capability; token format
// and storage of the refresh allowlist are implementation details.
type TokenIssuer interface {
	// Issue mints a fresh access/refresh pair for the user.
	Issue(ctx context.Context, user *domain.User) (*TokenPair, error)

	// ValidateRefresh checks a refresh token against the allowlist and
	// returns the subject user id, or domain.ErrInvalidToken.
	ValidateRefresh(ctx context.Context, refreshToken string) (string, error)

	// Revoke removes a refresh token from the allowlist. Revoking an already
	// revoked token is not an error.
	Revoke(ctx context.Context, refreshToken string) error
}
