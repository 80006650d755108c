package ports

import (
	"context"

	"github.com/forka/forum-backend/internal/core/domain"
)

// UpdateProfileInput uses pointers so partial updates are distinguishable
// from clearing a field.
type UpdateProfileInput struct {
	Bio         *string
	PhoneNumber *string
}

// UserService serves profile reads and the admin user management surface.
type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor Actor, in UpdateProfileInput) (*domain.User, error)
	// ChangePassword verifies the caller's current password before storing a
	// new policy-conforming hash.
	ChangePassword(ctx context.Context, actor Actor, oldPassword, newPassword string) error

	// List and UpdateRole require the manage-users capability.
	List(ctx context.Context, actor Actor, limit, offset int64) ([]*domain.User, int64, error)
	UpdateRole(ctx context.Context, actor Actor, userID string, role domain.Role) (*domain.User, error)
}
