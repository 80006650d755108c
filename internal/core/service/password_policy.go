package service

import (
	"fmt"
	"strings"

	"github.com/forka/forum-backend/internal/core/domain"
)

const defaultMinPasswordLength = 8

// commonPasswords is a short denylist of passwords seen constantly in breach
// corpora. Matching is case-insensitive.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"qwerty123":   {},
	"qwertyuiop":  {},
	"iloveyou":    {},
	"sunshine":    {},
	"football":    {},
	"baseball":    {},
	"dragon123":   {},
	"letmein123":  {},
	"welcome1":    {},
	"admin123":    {},
	"abc12345":    {},
	"monkey123":   {},
}

// PasswordPolicy enforces minimum credential strength at registration and
// password reset.
type PasswordPolicy struct {
	MinLength int
}

// NewPasswordPolicy returns a policy with the default minimum length when
// minLength is not positive.
func NewPasswordPolicy(minLength int) PasswordPolicy {
	if minLength <= 0 {
		minLength = defaultMinPasswordLength
	}
	return PasswordPolicy{MinLength: minLength}
}

// Validate checks password against the policy. Username and email provide
// the similarity context; either may be empty. On failure it returns a
// *domain.PasswordPolicyError listing every violated rule.
func (p PasswordPolicy) Validate(password, username, email string) error {
	var reasons []string

	if len(password) < p.MinLength {
		reasons = append(reasons, fmt.Sprintf("password must be at least %d characters", p.MinLength))
	}
	if password != "" && isAllDigits(password) {
		reasons = append(reasons, "password cannot be entirely numeric")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		reasons = append(reasons, "password is too common")
	}
	if tooSimilar(password, username) || tooSimilar(password, emailLocalPart(email)) {
		reasons = append(reasons, "password is too similar to your username or email")
	}

	if len(reasons) > 0 {
		return &domain.PasswordPolicyError{Reasons: reasons}
	}
	return nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// tooSimilar flags passwords that contain, or are contained in, the given
// identity attribute (case-insensitive). Attributes shorter than 4 runes are
// ignored to avoid false positives on initials.
func tooSimilar(password, attribute string) bool {
	if len(attribute) < 4 || password == "" {
		return false
	}
	pw := strings.ToLower(password)
	attr := strings.ToLower(attribute)
	return strings.Contains(pw, attr) || strings.Contains(attr, pw)
}

func emailLocalPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
