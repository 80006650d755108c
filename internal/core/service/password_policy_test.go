package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/forka/forum-backend/internal/core/domain"
)

func policyReasons(t *testing.T, err error) []string {
	t.Helper()
	var pe *domain.PasswordPolicyError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PasswordPolicyError, got %v", err)
	}
	return pe.Reasons
}

func TestPasswordPolicy_AcceptsStrongPassword(t *testing.T) {
	p := NewPasswordPolicy(8)
	if err := p.Validate("correct-horse-battery", "alice", "alice@example.com"); err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
}

func TestPasswordPolicy_TooShort(t *testing.T) {
	p := NewPasswordPolicy(8)
	reasons := policyReasons(t, p.Validate("ab1!xyz", "alice", "alice@example.com"))
	if len(reasons) != 1 || !strings.Contains(reasons[0], "at least 8 characters") {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
}

func TestPasswordPolicy_EntirelyNumeric(t *testing.T) {
	p := NewPasswordPolicy(8)
	reasons := policyReasons(t, p.Validate("98416275310", "alice", "alice@example.com"))
	if len(reasons) != 1 || reasons[0] != "password cannot be entirely numeric" {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
}

func TestPasswordPolicy_CommonPassword(t *testing.T) {
	p := NewPasswordPolicy(8)
	for _, pw := range []string{"password123", "PASSWORD123", "qwertyuiop"} {
		found := false
		for _, r := range policyReasons(t, p.Validate(pw, "alice", "alice@example.com")) {
			if r == "password is too common" {
				found = true
			}
		}
		if !found {
			t.Errorf("%q should be flagged as common", pw)
		}
	}
}

func TestPasswordPolicy_SimilarToIdentity(t *testing.T) {
	p := NewPasswordPolicy(8)

	reasons := policyReasons(t, p.Validate("alice2024!", "alice", "alice@example.com"))
	if len(reasons) != 1 || reasons[0] != "password is too similar to your username or email" {
		t.Fatalf("username similarity not flagged: %v", reasons)
	}

	// The local part of the email counts as identity too.
	if err := p.Validate("frontdesk99x", "alice", "frontdesk@example.com"); err == nil {
		t.Fatal("email local part similarity not flagged")
	}

	// Short attributes are ignored so initials do not poison everything.
	if err := p.Validate("abcdefgh1", "ab", "ab@example.com"); err != nil {
		t.Fatalf("short attribute should be ignored: %v", err)
	}
}

func TestPasswordPolicy_CollectsEveryViolation(t *testing.T) {
	p := NewPasswordPolicy(8)
	reasons := policyReasons(t, p.Validate("1234567", "alice", "alice@example.com"))
	if len(reasons) != 2 {
		t.Fatalf("expected length and numeric violations, got %v", reasons)
	}
}

func TestNewPasswordPolicy_DefaultsMinLength(t *testing.T) {
	if p := NewPasswordPolicy(0); p.MinLength != defaultMinPasswordLength {
		t.Fatalf("expected default %d, got %d", defaultMinPasswordLength, p.MinLength)
	}
	if p := NewPasswordPolicy(12); p.MinLength != 12 {
		t.Fatalf("expected 12, got %d", p.MinLength)
	}
}
