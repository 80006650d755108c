package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
)

// AuthConfig tunes the account security state machine.
type AuthConfig struct {
	LockoutThreshold int           // failed attempts before a lock (default 5)
	LockoutDuration  time.Duration // lock window (default 15m)
	BcryptCost       int           // 0 = bcrypt.DefaultCost
}

func (c AuthConfig) withDefaults() AuthConfig {
	if c.LockoutThreshold <= 0 {
		c.LockoutThreshold = 5
	}
	if c.LockoutDuration <= 0 {
		c.LockoutDuration = 15 * time.Minute
	}
	if c.BcryptCost <= 0 {
		c.BcryptCost = bcrypt.DefaultCost
	}
	return c
}

// dummyHash is compared against when the username is unknown, so a login
// probe costs the same whether or not the account exists.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// AuthService implements the account security state machine: registration,
// email verification, login with lockout, and password reset. All multi-write
// state transitions run inside the Transactor.
type AuthService struct {
	users  ports.UserRepository
	codes  ports.VerificationRepository
	tx     ports.Transactor
	mailer ports.Mailer
	tokens ports.TokenIssuer
	policy PasswordPolicy
	cfg    AuthConfig
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	codes ports.VerificationRepository,
	tx ports.Transactor,
	mailer ports.Mailer,
	tokens ports.TokenIssuer,
	policy PasswordPolicy,
	cfg AuthConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		codes:  codes,
		tx:     tx,
		mailer: mailer,
		tokens: tokens,
		policy: policy,
		cfg:    cfg.withDefaults(),
		log:    log,
		now:    time.Now,
	}
}

// Register creates an unverified account, issues an email_verify code, and
// mails it. Registration is all-or-nothing: if the mail cannot be delivered
// the account (and its codes) are deleted and ErrMailDelivery is returned.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	username := Sanitize(in.Username)
	email := Sanitize(in.Email)

	if !ValidEmail(email) {
		return nil, domain.ErrInvalidEmail
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if err := s.policy.Validate(in.Password, username, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		Username:      username,
		Email:         email,
		PasswordHash:  string(hash),
		Role:          domain.RoleUser,
		Bio:           Sanitize(in.Bio),
		PhoneNumber:   Sanitize(in.PhoneNumber),
		EmailVerified: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var code *domain.VerificationCode
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		created, err := s.users.Create(ctx, user)
		if err != nil {
			return err
		}
		user = created
		code, err = s.issueCode(ctx, user.ID, domain.PurposeEmailVerify)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerificationCode(ctx, user.Email, user.Username, code.Code); err != nil {
		s.log.Error().Err(err).Str("username", user.Username).Msg("verification email failed, rolling back registration")
		s.rollbackRegistration(ctx, user.ID)
		return nil, domain.ErrMailDelivery
	}

	s.log.Info().Str("username", user.Username).Msg("user registered, verification email sent")
	return &ports.RegisterResult{User: user, EmailVerificationRequired: true}, nil
}

// rollbackRegistration undoes a registration whose verification email could
// not be delivered. The code delete cascades before the user row goes away
// so no orphan codes survive a partial failure.
func (s *AuthService) rollbackRegistration(ctx context.Context, userID string) {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.codes.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return s.users.Delete(ctx, userID)
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("registration rollback failed")
	}
}

// VerifyEmail consumes an email_verify code and activates the account.
// Flipping email_verified and marking the code used happen in one
// transaction. On success a session token pair is issued.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (*ports.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, Sanitize(email))
	if err != nil {
		return nil, err
	}
	if user.EmailVerified {
		return nil, domain.ErrAlreadyVerified
	}

	vc, err := s.codes.FindLatestUnused(ctx, user.ID, domain.PurposeEmailVerify, Sanitize(code))
	if err != nil {
		return nil, err
	}
	if !vc.ValidAt(s.now()) {
		return nil, domain.ErrExpiredCode
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.SetEmailVerified(ctx, user.ID); err != nil {
			return err
		}
		return s.codes.MarkUsed(ctx, vc.ID)
	})
	if err != nil {
		return nil, err
	}
	user.EmailVerified = true

	tokens, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", user.Username).Msg("email verified")
	return &ports.AuthResult{User: user, Tokens: *tokens}, nil
}

// ResendVerification invalidates outstanding email_verify codes, issues a
// fresh one, and mails it. When no account matches the email it returns nil
// so the caller's response cannot be used to probe for accounts.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, Sanitize(email))
	if err != nil {
		return s.concealNotFound(err, "resend verification")
	}
	if user.EmailVerified {
		return domain.ErrAlreadyVerified
	}

	var code *domain.VerificationCode
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		code, err = s.issueCode(ctx, user.ID, domain.PurposeEmailVerify)
		return err
	})
	if err != nil {
		return err
	}

	if err := s.mailer.SendVerificationCode(ctx, user.Email, user.Username, code.Code); err != nil {
		s.log.Error().Err(err).Str("username", user.Username).Msg("resend verification email failed")
		return domain.ErrMailDelivery
	}
	return nil
}

// Login authenticates a username/password pair. The check order is
// load-bearing: lock first (no credential timing for locked accounts), then
// credentials, then the verification gate (unverified accounts are only
// revealed to callers who know the password), then success.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	user, err := s.users.FindByUsername(ctx, Sanitize(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Equalize cost with the real-password path; same error shape.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, &domain.InvalidCredentialsError{AttemptsRemaining: -1}
		}
		return nil, err
	}

	now := s.now()
	if user.LockedAt(now) {
		return nil, &domain.LockedError{Until: *user.LockedUntil}
	}
	if user.LockedUntil != nil {
		// Lock window elapsed: lazily clear it and reset the counter.
		if err := s.users.ResetLoginState(ctx, user.ID); err != nil {
			return nil, err
		}
		user.LockedUntil = nil
		user.FailedLoginAttempts = 0
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		updated, err := s.users.RecordLoginFailure(ctx, user.ID, s.cfg.LockoutThreshold, s.cfg.LockoutDuration)
		if err != nil {
			return nil, err
		}
		s.log.Warn().Str("username", user.Username).Int("failed_attempts", updated.FailedLoginAttempts).Msg("failed login attempt")
		if updated.LockedUntil != nil {
			s.log.Warn().Str("username", user.Username).Msg("account locked")
			return nil, &domain.LockedError{Until: *updated.LockedUntil, Triggered: true}
		}
		remaining := s.cfg.LockoutThreshold - updated.FailedLoginAttempts
		if remaining < 0 {
			remaining = 0
		}
		return nil, &domain.InvalidCredentialsError{AttemptsRemaining: remaining}
	}

	if !user.EmailVerified {
		return nil, &domain.VerificationRequiredError{Email: user.Email}
	}

	if err := s.users.ResetLoginState(ctx, user.ID); err != nil {
		return nil, err
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil

	tokens, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", user.Username).Msg("successful login")
	return &ports.AuthResult{User: user, Tokens: *tokens}, nil
}

// ForgotPassword issues a password_reset code and mails it. The response is
// constant whether or not the email exists, including on delivery failure;
// only a malformed address is surfaced.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = Sanitize(email)
	if !ValidEmail(email) {
		return domain.ErrInvalidEmail
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return s.concealNotFound(err, "forgot password")
	}

	var code *domain.VerificationCode
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		code, err = s.issueCode(ctx, user.ID, domain.PurposePasswordReset)
		return err
	})
	if err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetCode(ctx, user.Email, user.Username, code.Code); err != nil {
		// Surfacing a delivery error here would reveal that the account
		// exists; log it and keep the response constant.
		s.log.Error().Err(err).Str("username", user.Username).Msg("password reset email failed")
	}
	return nil
}

// VerifyResetCode checks a password_reset code without consuming it, so the
// client can collect the new password as a separate step. An unknown email
// renders as an invalid code.
func (s *AuthService) VerifyResetCode(ctx context.Context, email, code string) error {
	user, err := s.users.FindByEmail(ctx, Sanitize(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidCode
		}
		return err
	}

	vc, err := s.codes.FindLatestUnused(ctx, user.ID, domain.PurposePasswordReset, Sanitize(code))
	if err != nil {
		return err
	}
	if !vc.ValidAt(s.now()) {
		return domain.ErrExpiredCode
	}
	return nil
}

// ResetPassword consumes a password_reset code and sets the new password.
// The new hash, the code consumption, and the lockout reset commit as one
// unit. Policy failures leave the code unused so the user can retry.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	user, err := s.users.FindByEmail(ctx, Sanitize(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidCode
		}
		return err
	}

	if err := s.policy.Validate(newPassword, user.Username, user.Email); err != nil {
		return err
	}

	vc, err := s.codes.FindLatestUnused(ctx, user.ID, domain.PurposePasswordReset, Sanitize(code))
	if err != nil {
		return err
	}
	if !vc.ValidAt(s.now()) {
		return domain.ErrExpiredCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
			return err
		}
		if err := s.codes.MarkUsed(ctx, vc.ID); err != nil {
			return err
		}
		return s.users.ResetLoginState(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("username", user.Username).Msg("password reset")
	return nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is minted for the (still existing) user.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	userID, err := s.tokens.ValidateRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.tokens.Issue(ctx, user)
}

// Logout revokes the presented refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

// issueCode invalidates all unused codes of the purpose and creates a fresh
// one. Callers wrap it in a transaction so two concurrent issues cannot both
// leave a valid code outstanding.
func (s *AuthService) issueCode(ctx context.Context, userID string, purpose domain.CodePurpose) (*domain.VerificationCode, error) {
	if err := s.codes.InvalidateUnused(ctx, userID, purpose); err != nil {
		return nil, err
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	return s.codes.Create(ctx, &domain.VerificationCode{
		UserID:    userID,
		Code:      code,
		Purpose:   purpose,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.TTLFor(purpose)),
	})
}

// concealNotFound maps ErrUserNotFound to success for flows that must not
// reveal account existence; everything else propagates.
func (s *AuthService) concealNotFound(err error, flow string) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		s.log.Warn().Str("flow", flow).Msg("request for unknown email (concealed)")
		return nil
	}
	return err
}

// generateCode returns a fixed-width numeric code drawn uniformly from the
// digit space.
func generateCode() (string, error) {
	var space int64 = 1
	for i := 0; i < domain.CodeDigits; i++ {
		space *= 10
	}
	n, err := rand.Int(rand.Reader, big.NewInt(space))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", domain.CodeDigits, n), nil
}
