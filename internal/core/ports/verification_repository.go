package ports

import (
	"context"

	"github.com/forka/forum-backend/internal/core/domain"
)

// VerificationRepository is the verification ledger: storage and adjudication
// of one-time codes. Issuance and invalidation for the same (user, purpose)
// must be serialized by the caller through a Transactor so two concurrent
// issues never leave two valid codes outstanding.
type VerificationRepository interface {
	Create(ctx context.Context, code *domain.VerificationCode) (*domain.VerificationCode, error)

	// InvalidateUnused marks every unused code of the given purpose for the
	// user as used.
	InvalidateUnused(ctx context.Context, userID string, purpose domain.CodePurpose) error

	// FindLatestUnused returns the most recently created unused code matching
	// (user, purpose, code), or domain.ErrInvalidCode when none matches.
	// Expiry is adjudicated by the caller so "expired" and "wrong code" stay
	// distinct failure reasons.
	FindLatestUnused(ctx context.Context, userID string, purpose domain.CodePurpose, code string) (*domain.VerificationCode, error)

	// MarkUsed consumes a code by id.
	MarkUsed(ctx context.Context, id string) error

	// DeleteByUser removes all codes owned by the user (cascade on
	// registration rollback).
	DeleteByUser(ctx context.Context, userID string) error
}
