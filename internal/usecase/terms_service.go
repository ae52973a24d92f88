package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Darryldn9/direla-backend/internal/domain/contract"
	"github.com/Darryldn9/direla-backend/internal/domain/dto"
	domainErrors "github.com/Darryldn9/direla-backend/internal/domain/errors"
	"github.com/Darryldn9/direla-backend/internal/domain/ledger"
	"github.com/Darryldn9/direla-backend/internal/domain/model"
	"github.com/Darryldn9/direla-backend/internal/domain/repository"
)

// InstallmentPayer settles one installment. Satisfied by SettlementService;
// the narrow interface keeps the wiring between the two services one-way.
type InstallmentPayer interface {
	PayInstallment(ctx context.Context, req dto.InstallmentRequest) (*dto.SettlementResult, error)
}

// TermsService owns the BNPL terms entity and its one-shot state transitions.
// Every transition is a compare-and-swap on the status column, so a racing
// accept, reject or expiry timer resolves to exactly one winner.
type TermsService struct {
	termsRepo   repository.TermsRepository
	auditRepo   repository.AuditLogRepository
	agreements  contract.AgreementContract
	settlements InstallmentPayer
	notifier    Notifier
	tokens      map[string]string
	treasury    ledger.Signer
	validity    time.Duration
	logger      *zap.Logger
}

// NewTermsService creates a new terms lifecycle service. validity is how long
// a PENDING offer stays open before it expires.
func NewTermsService(
	termsRepo repository.TermsRepository,
	auditRepo repository.AuditLogRepository,
	agreements contract.AgreementContract,
	settlements InstallmentPayer,
	notifier Notifier,
	tokens map[string]string,
	treasury ledger.Signer,
	validity time.Duration,
	logger *zap.Logger,
) *TermsService {
	return &TermsService{
		termsRepo:   termsRepo,
		auditRepo:   auditRepo,
		agreements:  agreements,
		settlements: settlements,
		notifier:    notifier,
		tokens:      tokens,
		treasury:    treasury,
		validity:    validity,
		logger:      logger,
	}
}

// CreateTerms computes the derived amounts from the offer, writes a PENDING
// record and schedules its expiry. The audit event is best-effort.
func (s *TermsService) CreateTerms(ctx context.Context, offer dto.TermsOffer) (*model.BNPLTerms, error) {
	if !offer.Principal.IsPositive() {
		return nil, domainErrors.NewValidationError("principal", "must be positive")
	}
	if offer.InstallmentCount < 1 {
		return nil, domainErrors.NewValidationError("installment_count", "must be at least 1")
	}
	if offer.InterestRate.IsNegative() {
		return nil, domainErrors.NewValidationError("interest_rate", "must not be negative")
	}
	if offer.BuyerAccountID == offer.MerchantAccountID {
		return nil, domainErrors.NewValidationError("merchant_account_id", "buyer and merchant must differ")
	}
	if _, ok := s.tokens[offer.Currency]; !ok {
		return nil, domainErrors.NewValidationError("currency", fmt.Sprintf("no token configured for %s", offer.Currency))
	}

	terms := model.NewBNPLTerms(
		offer.PaymentReference,
		offer.BuyerAccountID,
		offer.MerchantAccountID,
		offer.Principal,
		offer.Currency,
		offer.InstallmentCount,
		offer.InterestRate,
		s.validity,
	)

	if err := s.termsRepo.Create(ctx, terms); err != nil {
		s.logger.Error("failed to create terms",
			zap.String("payment_reference", offer.PaymentReference),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create terms: %w", err)
	}

	s.logger.Info("bnpl terms created",
		zap.String("terms_id", terms.ID.String()),
		zap.String("buyer", terms.BuyerAccountID),
		zap.String("merchant", terms.MerchantAccountID),
		zap.String("principal", terms.Principal.String()),
		zap.Int("installments", terms.InstallmentCount),
		zap.Time("expires_at", terms.ExpiresAt))

	s.audit(ctx, model.AuditActionTermsCreated, terms.ID, terms.MerchantAccountID, model.JSONB{
		"principal":   terms.Principal.String(),
		"currency":    terms.Currency,
		"installment": terms.InstallmentAmount.String(),
	})
	s.notify(ctx, terms.BuyerAccountID, model.NotificationTypeTermsCreated, "New BNPL offer",
		fmt.Sprintf("%s offered %s %s over %d installments", terms.MerchantAccountID,
			terms.TotalWithInterest.String(), terms.Currency, terms.InstallmentCount), terms.ID)
	s.scheduleExpiry(terms.ID, terms.ExpiresAt)

	return terms, nil
}

// GetTerms retrieves a terms record by id
func (s *TermsService) GetTerms(ctx context.Context, termsID uuid.UUID) (*model.BNPLTerms, error) {
	terms, err := s.termsRepo.GetByID(ctx, termsID)
	if err != nil {
		return nil, err
	}
	if terms == nil {
		return nil, domainErrors.ErrTermsNotFound
	}
	return terms, nil
}

// ListTermsByAccount retrieves terms where the account is buyer or merchant
func (s *TermsService) ListTermsByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.BNPLTerms, error) {
	if limit <= 0 {
		limit = 20
	} else if limit > 200 {
		limit = 200
	}
	return s.termsRepo.GetByAccount(ctx, accountID, limit, offset)
}

// AcceptTerms transitions PENDING terms to ACCEPTED, instantiates the on-chain
// agreement and kicks off the first installment. The store and the contract
// cannot share a transaction: when the contract call fails the acceptance is
// compensated back to PENDING exactly as it was.
func (s *TermsService) AcceptTerms(ctx context.Context, termsID uuid.UUID, actingAccountID string) (*model.BNPLTerms, error) {
	terms, err := s.guardTransition(ctx, termsID, actingAccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	swapped, err := s.termsRepo.UpdateStatusIf(ctx, termsID, model.TermsStatusPending, model.TermsStatusAccepted,
		repository.TermsUpdate{AcceptedAt: &now})
	if err != nil {
		return nil, fmt.Errorf("failed to accept terms: %w", err)
	}
	if !swapped {
		// Another accept, reject or expiry won the race.
		return nil, s.invalidState(ctx, termsID)
	}

	result, err := s.createAgreement(ctx, terms)
	if err != nil {
		s.compensateAcceptance(ctx, termsID)
		s.logger.Error("on-chain agreement creation failed, acceptance compensated",
			zap.String("terms_id", termsID.String()),
			zap.Error(err))
		return nil, domainErrors.NewExternalServiceError("contract", "create agreement", err)
	}

	if err := s.termsRepo.SetAgreement(ctx, termsID, result.AgreementID, result.TxID); err != nil {
		s.logger.Error("failed to store agreement reference",
			zap.String("terms_id", termsID.String()),
			zap.String("agreement_id", result.AgreementID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to store agreement reference: %w", err)
	}

	s.logger.Info("bnpl terms accepted",
		zap.String("terms_id", termsID.String()),
		zap.String("agreement_id", result.AgreementID),
		zap.String("acting_account", actingAccountID))

	s.audit(ctx, model.AuditActionTermsAccepted, termsID, actingAccountID, model.JSONB{
		"agreement_id": result.AgreementID,
	})
	s.notify(ctx, terms.Counterparty(actingAccountID), model.NotificationTypeTermsAccepted, "Terms accepted",
		fmt.Sprintf("%s accepted the payment terms", actingAccountID), termsID)

	// First installment as a convenience. Its failure is reported through the
	// settlement path and does not undo the acceptance.
	if _, err := s.settlements.PayInstallment(ctx, dto.InstallmentRequest{
		AgreementRef:       result.AgreementID,
		PayerAccountID:     terms.BuyerAccountID,
		PayeeAccountID:     terms.MerchantAccountID,
		Amount:             terms.InstallmentAmount,
		SettlementCurrency: terms.Currency,
	}); err != nil {
		s.logger.Error("first installment failed after acceptance",
			zap.String("terms_id", termsID.String()),
			zap.String("agreement_id", result.AgreementID),
			zap.Error(err))
	}

	return s.GetTerms(ctx, termsID)
}

// RejectTerms transitions PENDING terms to REJECTED with an optional reason
func (s *TermsService) RejectTerms(ctx context.Context, termsID uuid.UUID, actingAccountID, reason string) (*model.BNPLTerms, error) {
	terms, err := s.guardTransition(ctx, termsID, actingAccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	update := repository.TermsUpdate{RejectedAt: &now}
	if reason != "" {
		update.RejectionReason = &reason
	}

	swapped, err := s.termsRepo.UpdateStatusIf(ctx, termsID, model.TermsStatusPending, model.TermsStatusRejected, update)
	if err != nil {
		return nil, fmt.Errorf("failed to reject terms: %w", err)
	}
	if !swapped {
		return nil, s.invalidState(ctx, termsID)
	}

	s.logger.Info("bnpl terms rejected",
		zap.String("terms_id", termsID.String()),
		zap.String("acting_account", actingAccountID),
		zap.String("reason", reason))

	s.audit(ctx, model.AuditActionTermsRejected, termsID, actingAccountID, model.JSONB{
		"reason": reason,
	})
	s.notify(ctx, terms.Counterparty(actingAccountID), model.NotificationTypeTermsRejected, "Terms rejected",
		fmt.Sprintf("%s rejected the payment terms", actingAccountID), termsID)

	return s.GetTerms(ctx, termsID)
}

// ExpireTerms flips one PENDING record past its expiry to EXPIRED. Driven by
// the per-record timer; the conditional update makes a late timer harmless.
func (s *TermsService) ExpireTerms(ctx context.Context, termsID uuid.UUID) error {
	terms, err := s.termsRepo.GetByID(ctx, termsID)
	if err != nil {
		return err
	}
	if terms == nil || terms.Status != model.TermsStatusPending || !terms.IsExpired(time.Now()) {
		return nil
	}

	swapped, err := s.termsRepo.UpdateStatusIf(ctx, termsID, model.TermsStatusPending, model.TermsStatusExpired, repository.TermsUpdate{})
	if err != nil {
		return fmt.Errorf("failed to expire terms: %w", err)
	}
	if swapped {
		s.logger.Info("bnpl terms expired", zap.String("terms_id", termsID.String()))
		s.audit(ctx, model.AuditActionTermsExpired, termsID, "", nil)
		body := fmt.Sprintf("The payment terms offer expired at %s", terms.ExpiresAt.Format(time.RFC3339))
		s.notify(ctx, terms.BuyerAccountID, model.NotificationTypeTermsExpired, "Terms expired", body, termsID)
		s.notify(ctx, terms.MerchantAccountID, model.NotificationTypeTermsExpired, "Terms expired", body, termsID)
	}
	return nil
}

// CleanupExpiredTerms sweeps every PENDING record whose expiry has passed
func (s *TermsService) CleanupExpiredTerms(ctx context.Context) (int64, error) {
	expired, err := s.termsRepo.ExpireDue(ctx, time.Now())
	if err != nil {
		s.logger.Error("expiry sweep failed", zap.Error(err))
		return 0, fmt.Errorf("expiry sweep failed: %w", err)
	}
	if expired > 0 {
		s.logger.Info("expiry sweep completed", zap.Int64("expired", expired))
	}
	return expired, nil
}

// StartExpirySweeper runs CleanupExpiredTerms on the given interval until the
// context is cancelled.
func (s *TermsService) StartExpirySweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.CleanupExpiredTerms(ctx); err != nil {
					s.logger.Error("scheduled expiry sweep failed", zap.Error(err))
				}
			}
		}
	}()
}

// guardTransition loads the record and applies the shared accept/reject
// guards: existence, pending status, expiry-on-read and party authorization.
func (s *TermsService) guardTransition(ctx context.Context, termsID uuid.UUID, actingAccountID string) (*model.BNPLTerms, error) {
	terms, err := s.termsRepo.GetByID(ctx, termsID)
	if err != nil {
		return nil, err
	}
	if terms == nil {
		return nil, domainErrors.ErrTermsNotFound
	}
	if terms.Status != model.TermsStatusPending {
		return nil, domainErrors.NewInvalidStateError(termsID.String(), string(terms.Status), string(model.TermsStatusPending))
	}
	if terms.IsExpired(time.Now()) {
		// Expired-on-read: flip the status as a side effect and refuse.
		if _, err := s.termsRepo.UpdateStatusIf(ctx, termsID, model.TermsStatusPending, model.TermsStatusExpired, repository.TermsUpdate{}); err != nil {
			s.logger.Warn("failed to mark terms expired on read",
				zap.String("terms_id", termsID.String()),
				zap.Error(err))
		}
		return nil, domainErrors.NewExpiredError(termsID.String(), terms.ExpiresAt)
	}
	if !terms.IsParty(actingAccountID) {
		return nil, domainErrors.NewUnauthorizedError(termsID.String(), actingAccountID)
	}
	return terms, nil
}

// createAgreement instantiates the on-chain agreement for accepted terms,
// converting the principal to base units and the rate to basis points.
func (s *TermsService) createAgreement(ctx context.Context, terms *model.BNPLTerms) (*contract.CreateAgreementResult, error) {
	tokenID, ok := s.tokens[terms.Currency]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrTokenNotConfigured, terms.Currency)
	}

	return s.agreements.CreateAgreement(ctx,
		terms.BuyerAccountID,
		terms.MerchantAccountID,
		toBaseUnits(terms.Principal),
		terms.InterestRateBps(),
		terms.InstallmentCount,
		tokenID,
		s.treasury,
	)
}

// compensateAcceptance reverts a status write whose follow-up contract call
// failed, restoring the record to its exact pre-acceptance state.
func (s *TermsService) compensateAcceptance(ctx context.Context, termsID uuid.UUID) {
	swapped, err := s.termsRepo.UpdateStatusIf(ctx, termsID, model.TermsStatusAccepted, model.TermsStatusPending,
		repository.TermsUpdate{ClearAcceptedAt: true})
	if err != nil || !swapped {
		s.logger.Error("acceptance compensation did not apply",
			zap.String("terms_id", termsID.String()),
			zap.Bool("swapped", swapped),
			zap.Error(err))
	}
}

// invalidState reports the status a lost compare-and-swap actually found
func (s *TermsService) invalidState(ctx context.Context, termsID uuid.UUID) error {
	current := "unknown"
	if terms, err := s.termsRepo.GetByID(ctx, termsID); err == nil && terms != nil {
		current = string(terms.Status)
	}
	return domainErrors.NewInvalidStateError(termsID.String(), current, string(model.TermsStatusPending))
}

// notify records a lifecycle event for one party. Best-effort like the audit
// trail: the transition already committed, a delivery failure only gets logged.
func (s *TermsService) notify(ctx context.Context, userID string, notificationType model.NotificationType, title, body string, termsID uuid.UUID) {
	metadata := model.JSONB{"terms_id": termsID.String()}
	if _, err := s.notifier.Create(ctx, userID, notificationType, title, body, metadata); err != nil {
		s.logger.Warn("failed to send terms notification",
			zap.String("user_id", userID),
			zap.String("terms_id", termsID.String()),
			zap.String("type", string(notificationType)),
			zap.Error(err))
	}
}

func (s *TermsService) audit(ctx context.Context, action string, termsID uuid.UUID, accountID string, details model.JSONB) {
	entry := &model.AuditLog{
		Action:    action,
		TermsID:   &termsID,
		Details:   details,
		CreatedAt: time.Now(),
	}
	if accountID != "" {
		entry.AccountID = &accountID
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.logger.Warn("failed to append audit event",
			zap.String("action", action),
			zap.String("terms_id", termsID.String()),
			zap.Error(err))
	}
}

// scheduleExpiry arms a one-shot timer for the record's expiry. The sweep is
// the backstop when the process restarts before the timer fires.
func (s *TermsService) scheduleExpiry(termsID uuid.UUID, expiresAt time.Time) {
	time.AfterFunc(time.Until(expiresAt), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.ExpireTerms(ctx, termsID); err != nil {
			s.logger.Error("timer-driven expiry failed",
				zap.String("terms_id", termsID.String()),
				zap.Error(err))
		}
	})
}
