package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Darryldn9/direla-backend/internal/domain/model"
)

// TermsUpdate carries the columns written alongside a status transition.
// Nil pointers leave the column untouched; ClearAcceptedAt explicitly nulls
// accepted_at when a failed contract call compensates an acceptance.
type TermsUpdate struct {
	AcceptedAt      *time.Time
	ClearAcceptedAt bool
	RejectedAt      *time.Time
	RejectionReason *string
	AgreementID     *string
	AgreementTxID   *string
}

// TermsRepository defines the interface for BNPL terms persistence. Status
// transitions go through UpdateStatusIf, a compare-and-swap on the status
// column, so concurrent transitions cannot blindly overwrite each other.
type TermsRepository interface {
	Create(ctx context.Context, terms *model.BNPLTerms) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.BNPLTerms, error)
	GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.BNPLTerms, error)

	// UpdateStatusIf sets the status (and the accompanying columns) only where
	// the record currently has the expected status. It returns true when the
	// row was updated, false when the predicate excluded it.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, expected, next model.TermsStatus, update TermsUpdate) (bool, error)

	// SetAgreement records the on-chain agreement reference after acceptance.
	SetAgreement(ctx context.Context, id uuid.UUID, agreementID, agreementTxID string) error

	// ExpireDue flips every PENDING record whose expiry has passed to EXPIRED
	// and returns how many rows changed. The predicate makes a late-firing
	// timer a no-op on records that were accepted or rejected in the meantime.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}
