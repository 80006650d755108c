package domain

import "time"

// Role gates authorization decisions. What each role may do is defined by
// the policy in policy.go, not by the role value itself.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

// User is a registered human identity with credentials and a role.
//
// Created unverified at registration; EmailVerified flips true exactly once.
// FailedLoginAttempts and LockedUntil mutate on login attempts. The account
// security service never hard-deletes a user except when rolling back a
// registration whose verification email could not be delivered.
type User struct {
	ID                  string     `json:"id" bson:"_id,omitempty"`
	Username            string     `json:"username" bson:"username"`
	Email               string     `json:"email" bson:"email"`
	PasswordHash        string     `json:"-" bson:"password_hash"`
	Role                Role       `json:"role" bson:"role"`
	Bio                 string     `json:"bio,omitempty" bson:"bio,omitempty"`
	PhoneNumber         string     `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	EmailVerified       bool       `json:"email_verified" bson:"email_verified"`
	FailedLoginAttempts int        `json:"-" bson:"failed_login_attempts"`
	LockedUntil         *time.Time `json:"-" bson:"locked_until,omitempty"`
	CreatedAt           time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" bson:"updated_at"`
}

// LockedAt reports whether the account is authoritatively locked at now.
// A LockedUntil in the past does not count as locked; the login flow lazily
// clears it together with the attempt counter.
func (u *User) LockedAt(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}
