package domain

import "time"

// CodePurpose binds a verification code to a single flow.
type CodePurpose string

const (
	PurposeEmailVerify   CodePurpose = "email_verify"
	PurposePasswordReset CodePurpose = "password_reset"
)

// Expiry windows per purpose, matching the account security design.
const (
	EmailVerifyCodeTTL   = 10 * time.Minute
	PasswordResetCodeTTL = 15 * time.Minute

	// CodeDigits is the fixed width of a numeric verification code.
	CodeDigits = 6
)

// VerificationCode is a single-use, time-boxed numeric secret bound to one
// user and one purpose. Issuing a new code invalidates all prior unused codes
// of the same purpose for that user, so at most one code per (user, purpose)
// is valid at any instant.
type VerificationCode struct {
	ID        string      `json:"id" bson:"_id,omitempty"`
	UserID    string      `json:"user_id" bson:"user_id"`
	Code      string      `json:"code" bson:"code"`
	Purpose   CodePurpose `json:"purpose" bson:"purpose"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time   `json:"expires_at" bson:"expires_at"`
	Used      bool        `json:"used" bson:"used"`
}

// ValidAt reports whether the code is still consumable at now.
func (c *VerificationCode) ValidAt(now time.Time) bool {
	return !c.Used && now.Before(c.ExpiresAt)
}

// TTLFor returns the expiry window for a purpose.
func TTLFor(p CodePurpose) time.Duration {
	if p == PurposePasswordReset {
		return PasswordResetCodeTTL
	}
	return EmailVerifyCodeTTL
}
