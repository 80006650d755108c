package ports

import (
	"context"
	"time"

	"github.com/forka/forum-backend/internal/core/domain"
)

// UserRepository is the credential store: persistence for user identity and
// security posture. Implementations must provide row-level atomic updates for
// the lockout counters so concurrent login attempts cannot lose updates.
type UserRepository interface {
	// Create persists a new user. Returns domain.ErrUsernameTaken or
	// domain.ErrEmailTaken when the respective unique index is violated.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// Delete removes the user record. Used only for registration rollback;
	// the caller is responsible for cascading verification codes.
	Delete(ctx context.Context, id string) error

	// SetEmailVerified flips email_verified to true.
	SetEmailVerified(ctx context.Context, id string) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// RecordLoginFailure atomically increments failed_login_attempts and, when
	// the new count reaches threshold, sets locked_until = now + lockFor. The
	// returned user reflects the post-update state.
	RecordLoginFailure(ctx context.Context, id string, threshold int, lockFor time.Duration) (*domain.User, error)

	// ResetLoginState zeroes failed_login_attempts and clears locked_until.
	ResetLoginState(ctx context.Context, id string) error

	// UpdateProfile updates the mutable profile fields.
	UpdateProfile(ctx context.Context, id, bio, phoneNumber string) (*domain.User, error)

	// UpdateRole changes a user's role. Admin-gated by the API layer.
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)

	// List returns a page of users and the total count.
	List(ctx context.Context, limit, offset int64) ([]*domain.User, int64, error)
}
