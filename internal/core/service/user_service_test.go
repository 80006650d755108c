package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
	"github.com/forka/forum-backend/pkg/logger"
)

type userFixture struct {
	svc   ports.UserService
	users *fakeUserRepo
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	logger.Init(logger.Options{Level: "error"})

	f := &userFixture{users: newFakeUserRepo()}
	f.svc = NewUserService(f.users, NewPasswordPolicy(8), bcrypt.MinCost, logger.Get())
	return f
}

func (f *userFixture) seed(t *testing.T, username string, role domain.Role) *domain.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), &domain.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", username, err)
	}
	return u
}

func TestUserUpdateProfile_PartialUpdate(t *testing.T) {
	f := newUserFixture(t)
	u := f.seed(t, "alice", domain.RoleUser)
	f.users.users[u.ID].Bio = "old bio"
	f.users.users[u.ID].PhoneNumber = "111"

	bio := "<b>new</b> bio"
	updated, err := f.svc.UpdateProfile(context.Background(), ports.Actor{ID: u.ID, Role: u.Role}, ports.UpdateProfileInput{Bio: &bio})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Bio != "new bio" {
		t.Fatalf("bio not sanitized: %q", updated.Bio)
	}
	if updated.PhoneNumber != "111" {
		t.Fatal("unset fields must survive a partial update")
	}
}

func TestUserList_AdminOnly(t *testing.T) {
	f := newUserFixture(t)
	u := f.seed(t, "alice", domain.RoleUser)
	a := f.seed(t, "ada", domain.RoleAdmin)

	if _, _, err := f.svc.List(context.Background(), ports.Actor{ID: u.ID, Role: u.Role}, 20, 0); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	users, total, err := f.svc.List(context.Background(), ports.Actor{ID: a.ID, Role: a.Role}, 20, 0)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Fatalf("expected 2 users, got %d (total %d)", len(users), total)
	}
}

func TestUserUpdateRole(t *testing.T) {
	f := newUserFixture(t)
	u := f.seed(t, "alice", domain.RoleUser)
	m := f.seed(t, "mia", domain.RoleModerator)
	a := f.seed(t, "ada", domain.RoleAdmin)

	adminActor := ports.Actor{ID: a.ID, Role: a.Role}

	// Moderators cannot manage users.
	if _, err := f.svc.UpdateRole(context.Background(), ports.Actor{ID: m.ID, Role: m.Role}, u.ID, domain.RoleModerator); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if _, err := f.svc.UpdateRole(context.Background(), adminActor, u.ID, domain.Role("superuser")); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}

	updated, err := f.svc.UpdateRole(context.Background(), adminActor, u.ID, domain.RoleModerator)
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Role != domain.RoleModerator {
		t.Fatalf("role not applied: %s", updated.Role)
	}

	if _, err := f.svc.UpdateRole(context.Background(), adminActor, "missing", domain.RoleUser); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func (f *userFixture) seedWithPassword(t *testing.T, username, password string) *domain.User {
	t.Helper()
	u := f.seed(t, username, domain.RoleUser)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	f.users.users[u.ID].PasswordHash = string(hash)
	return u
}

func TestUserChangePassword_ReplacesHash(t *testing.T) {
	f := newUserFixture(t)
	u := f.seedWithPassword(t, "alice", "original-pass-1")
	actor := ports.Actor{ID: u.ID, Role: domain.RoleUser}

	if err := f.svc.ChangePassword(context.Background(), actor, "original-pass-1", "brand-new-pass-2"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	stored := f.users.users[u.ID].PasswordHash
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte("brand-new-pass-2")); err != nil {
		t.Fatal("new password does not match the stored hash")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte("original-pass-1")); err == nil {
		t.Fatal("old password still matches after the change")
	}
}

func TestUserChangePassword_WrongOldPassword(t *testing.T) {
	f := newUserFixture(t)
	u := f.seedWithPassword(t, "alice", "original-pass-1")
	actor := ports.Actor{ID: u.ID, Role: domain.RoleUser}

	before := f.users.users[u.ID].PasswordHash
	err := f.svc.ChangePassword(context.Background(), actor, "not-the-password", "brand-new-pass-2")
	if !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if f.users.users[u.ID].PasswordHash != before {
		t.Fatal("hash must not change when the old password is wrong")
	}
}

func TestUserChangePassword_EnforcesPolicy(t *testing.T) {
	f := newUserFixture(t)
	u := f.seedWithPassword(t, "alice", "original-pass-1")
	actor := ports.Actor{ID: u.ID, Role: domain.RoleUser}

	var policyErr *domain.PasswordPolicyError
	if err := f.svc.ChangePassword(context.Background(), actor, "original-pass-1", "12345678"); !errors.As(err, &policyErr) {
		t.Fatalf("expected PasswordPolicyError, got %v", err)
	}
	// Too similar to the username.
	if err := f.svc.ChangePassword(context.Background(), actor, "original-pass-1", "alice1234"); !errors.As(err, &policyErr) {
		t.Fatalf("expected PasswordPolicyError, got %v", err)
	}

	stored := f.users.users[u.ID].PasswordHash
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte("original-pass-1")); err != nil {
		t.Fatal("rejected change must leave the old password usable")
	}
}

func TestUserChangePassword_UnknownActor(t *testing.T) {
	f := newUserFixture(t)

	err := f.svc.ChangePassword(context.Background(), ports.Actor{ID: "missing", Role: domain.RoleUser}, "a", "b")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
