package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
)

type userService struct {
	users      ports.UserRepository
	policy     PasswordPolicy
	bcryptCost int
	log        zerolog.Logger
}

func NewUserService(users ports.UserRepository, policy PasswordPolicy, bcryptCost int, log zerolog.Logger) ports.UserService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{users: users, policy: policy, bcryptCost: bcryptCost, log: log}
}

func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindByUsername(ctx, username)
}

func (s *userService) UpdateProfile(ctx context.Context, actor ports.Actor, in ports.UpdateProfileInput) (*domain.User, error) {
	current, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	bio := current.Bio
	if in.Bio != nil {
		bio = Sanitize(*in.Bio)
	}
	phone := current.PhoneNumber
	if in.PhoneNumber != nil {
		phone = Sanitize(*in.PhoneNumber)
	}

	return s.users.UpdateProfile(ctx, actor.ID, bio, phone)
}

func (s *userService) ChangePassword(ctx context.Context, actor ports.Actor, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.ErrWrongPassword
	}
	if err := s.policy.Validate(newPassword, user.Username, user.Email); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	s.log.Info().Str("user_id", user.ID).Msg("password changed")
	return nil
}

func (s *userService) List(ctx context.Context, actor ports.Actor, limit, offset int64) ([]*domain.User, int64, error) {
	if !domain.Can(actor.Role, domain.ActionManageUsers, false) {
		return nil, 0, domain.ErrForbidden
	}
	if limit <= 0 || limit > maxPageSize {
		limit = 20
	}
	return s.users.List(ctx, limit, offset)
}

func (s *userService) UpdateRole(ctx context.Context, actor ports.Actor, userID string, role domain.Role) (*domain.User, error) {
	if !domain.Can(actor.Role, domain.ActionManageUsers, false) {
		return nil, domain.ErrForbidden
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	updated, err := s.users.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", userID).
		Str("role", string(role)).
		Str("changed_by", actor.ID).
		Msg("user role changed")
	return updated, nil
}
