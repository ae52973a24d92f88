package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Darryldn9/direla-backend/internal/domain/model"
	"github.com/Darryldn9/direla-backend/internal/domain/repository"
)

// termsRepository implements the TermsRepository interface
type termsRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewTermsRepository creates a new terms repository
func NewTermsRepository(db *gorm.DB, logger *zap.Logger) repository.TermsRepository {
	return &termsRepository{
		db:     db,
		logger: logger,
	}
}

func (r *termsRepository) Create(ctx context.Context, terms *model.BNPLTerms) error {
	if err := r.db.WithContext(ctx).Create(terms).Error; err != nil {
		r.logger.Error("failed to insert terms",
			zap.String("terms_id", terms.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to insert terms: %w", err)
	}
	return nil
}

func (r *termsRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BNPLTerms, error) {
	var terms model.BNPLTerms
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&terms).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Error("failed to get terms",
			zap.String("terms_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get terms: %w", err)
	}
	return &terms, nil
}

func (r *termsRepository) GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.BNPLTerms, error) {
	var terms []model.BNPLTerms
	err := r.db.WithContext(ctx).
		Where("buyer_account_id = ? OR merchant_account_id = ?", accountID, accountID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&terms).Error
	if err != nil {
		r.logger.Error("failed to list terms by account",
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list terms by account: %w", err)
	}
	return terms, nil
}

// UpdateStatusIf is the compare-and-swap primitive behind every one-shot
// status transition. The equality predicate on the current status makes the
// transition atomic at the store level; RowsAffected tells the caller whether
// it won.
func (r *termsRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected, next model.TermsStatus, update repository.TermsUpdate) (bool, error) {
	columns := map[string]interface{}{
		"status":     next,
		"updated_at": time.Now(),
	}
	if update.AcceptedAt != nil {
		columns["accepted_at"] = *update.AcceptedAt
	}
	if update.ClearAcceptedAt {
		columns["accepted_at"] = nil
	}
	if update.RejectedAt != nil {
		columns["rejected_at"] = *update.RejectedAt
	}
	if update.RejectionReason != nil {
		columns["rejection_reason"] = *update.RejectionReason
	}
	if update.AgreementID != nil {
		columns["agreement_id"] = *update.AgreementID
	}
	if update.AgreementTxID != nil {
		columns["agreement_tx_id"] = *update.AgreementTxID
	}

	result := r.db.WithContext(ctx).
		Model(&model.BNPLTerms{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(columns)
	if result.Error != nil {
		r.logger.Error("failed to update terms status",
			zap.String("terms_id", id.String()),
			zap.String("expected", string(expected)),
			zap.String("next", string(next)),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to update terms status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *termsRepository) SetAgreement(ctx context.Context, id uuid.UUID, agreementID, agreementTxID string) error {
	err := r.db.WithContext(ctx).
		Model(&model.BNPLTerms{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"agreement_id":    agreementID,
			"agreement_tx_id": agreementTxID,
			"updated_at":      time.Now(),
		}).Error
	if err != nil {
		r.logger.Error("failed to set agreement reference",
			zap.String("terms_id", id.String()),
			zap.String("agreement_id", agreementID),
			zap.Error(err))
		return fmt.Errorf("failed to set agreement reference: %w", err)
	}
	return nil
}

// ExpireDue is the sweep form of the conditional update: a record accepted or
// rejected after its expiry is excluded by the predicate, never downgraded.
func (r *termsRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.BNPLTerms{}).
		Where("status = ? AND expires_at < ?", model.TermsStatusPending, now).
		Updates(map[string]interface{}{
			"status":     model.TermsStatusExpired,
			"updated_at": now,
		})
	if result.Error != nil {
		r.logger.Error("failed to expire due terms", zap.Error(result.Error))
		return 0, fmt.Errorf("failed to expire due terms: %w", result.Error)
	}
	return result.RowsAffected, nil
}
