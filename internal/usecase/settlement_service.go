package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Darryldn9/direla-backend/internal/domain/contract"
	"github.com/Darryldn9/direla-backend/internal/domain/dto"
	domainErrors "github.com/Darryldn9/direla-backend/internal/domain/errors"
	"github.com/Darryldn9/direla-backend/internal/domain/ledger"
	"github.com/Darryldn9/direla-backend/internal/domain/model"
	"github.com/Darryldn9/direla-backend/internal/retry"
)

// Quoter issues a time-boxed cross-currency quote
type Quoter interface {
	Quote(ctx context.Context, from, to string, amount decimal.Decimal) (*model.CurrencyQuote, error)
}

// SignerSource resolves an account's stored currency preference and its
// transaction signer. Satisfied by AccountService.
type SignerSource interface {
	PreferredCurrency(ctx context.Context, hederaAccountID string) (string, error)
	Signer(ctx context.Context, hederaAccountID string) (ledger.Signer, error)
}

// Notifier records a user-facing event. Satisfied by NotificationService.
type Notifier interface {
	Create(ctx context.Context, userID string, notificationType model.NotificationType, title, body string, metadata model.JSONB) (*model.Notification, error)
}

// SettlementService executes one BNPL installment as a cross-system
// burn-then-mint operation. The ledger, the agreement contract and the
// relational store cannot share a transaction, so the orchestration is a saga:
// each step is logged, a failure before the burn aborts cleanly, and a failure
// after the burn is surfaced as a PartialSettlementError for reconciliation.
type SettlementService struct {
	accounts    SignerSource
	quotes      Quoter
	tokenLedger ledger.TokenLedger
	agreements  contract.AgreementContract
	notifier    Notifier
	tokens      map[string]string
	treasury    ledger.Signer
	retryPolicy retry.Policy
	logger      *zap.Logger
}

// NewSettlementService creates a new settlement orchestrator. tokens maps
// currency codes to fiat-pegged token ids; treasury is the platform signer
// authorized to mint and to record contract payments.
func NewSettlementService(
	accounts SignerSource,
	quotes Quoter,
	tokenLedger ledger.TokenLedger,
	agreements contract.AgreementContract,
	notifier Notifier,
	tokens map[string]string,
	treasury ledger.Signer,
	retryPolicy retry.Policy,
	logger *zap.Logger,
) *SettlementService {
	return &SettlementService{
		accounts:    accounts,
		quotes:      quotes,
		tokenLedger: tokenLedger,
		agreements:  agreements,
		notifier:    notifier,
		tokens:      tokens,
		treasury:    treasury,
		retryPolicy: retryPolicy,
		logger:      logger,
	}
}

// PayInstallment settles one installment. On success the payer is debited in
// their own currency, the merchant is credited in the settlement currency and
// the on-chain agreement is advanced. On failure after the burn the error is a
// PartialSettlementError and both parties are notified; earlier failures abort
// with nothing applied.
func (s *SettlementService) PayInstallment(ctx context.Context, req dto.InstallmentRequest) (*dto.SettlementResult, error) {
	agreementID, err := s.resolveAgreementRef(ctx, req.AgreementRef)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(
		zap.String("agreement_id", agreementID),
		zap.String("payer", req.PayerAccountID),
		zap.String("payee", req.PayeeAccountID))

	payerCurrency := req.PayerCurrency
	if payerCurrency == "" {
		payerCurrency, err = s.accounts.PreferredCurrency(ctx, req.PayerAccountID)
		if err != nil {
			return nil, err
		}
	}

	chargeAmount := req.Amount
	quoteRate := decimal.NewFromInt(1)
	if payerCurrency != req.SettlementCurrency {
		quote, err := s.quotes.Quote(ctx, req.SettlementCurrency, payerCurrency, req.Amount)
		if err != nil {
			return nil, err
		}
		if quote.Expired(time.Now()) {
			return nil, domainErrors.NewExternalServiceError("exchange", "quote",
				fmt.Errorf("quote %s expired at %s", quote.ID, quote.ExpiresAt.Format(time.RFC3339)))
		}
		chargeAmount = quote.ToAmount
		quoteRate = quote.Rate
		log.Info("cross-currency installment quoted",
			zap.String("quote_id", quote.ID.String()),
			zap.String("settlement_currency", req.SettlementCurrency),
			zap.String("payer_currency", payerCurrency),
			zap.String("rate", quote.Rate.String()),
			zap.String("charge_amount", chargeAmount.String()))
	}

	payerToken, err := s.tokenFor(payerCurrency)
	if err != nil {
		return nil, err
	}
	settleToken, err := s.tokenFor(req.SettlementCurrency)
	if err != nil {
		return nil, err
	}

	payerBase := toBaseUnits(chargeAmount)
	settleBase := toBaseUnits(req.Amount)

	payerSigner, err := s.accounts.Signer(ctx, req.PayerAccountID)
	if err != nil {
		return nil, err
	}
	payeeSigner, err := s.accounts.Signer(ctx, req.PayeeAccountID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureAssociated(ctx, req.PayerAccountID, payerToken, payerSigner); err != nil {
		return nil, s.fail(ctx, agreementID, req, domainErrors.NewExternalServiceError("ledger", "associate payer", err))
	}
	if err := s.ensureAssociated(ctx, req.PayeeAccountID, settleToken, payeeSigner); err != nil {
		return nil, s.fail(ctx, agreementID, req, domainErrors.NewExternalServiceError("ledger", "associate payee", err))
	}

	// Burn first: until the payer is debited nothing has been promised to the
	// merchant and the operation can abort without compensation.
	burnResult, err := retry.Do(ctx, s.retryPolicy, ledger.IsTransient, func(ctx context.Context) (*ledger.TransferResult, error) {
		return s.tokenLedger.Burn(ctx, payerToken, payerBase, payerSigner)
	})
	if err != nil {
		log.Error("installment burn failed", zap.Error(err))
		return nil, s.fail(ctx, agreementID, req, domainErrors.NewExternalServiceError("ledger", "burn", err))
	}
	log.Info("installment burn applied",
		zap.String("burn_tx_id", burnResult.TxID),
		zap.Int64("amount_base_units", payerBase),
		zap.String("token_id", payerToken))

	mintResult, err := retry.Do(ctx, s.retryPolicy, ledger.IsTransient, func(ctx context.Context) (*ledger.TransferResult, error) {
		return s.tokenLedger.Mint(ctx, settleToken, settleBase, req.PayeeAccountID, s.treasury)
	})
	if err != nil {
		log.Error("installment mint failed after burn",
			zap.String("burn_tx_id", burnResult.TxID),
			zap.Error(err))
		return nil, s.fail(ctx, agreementID, req,
			domainErrors.NewPartialSettlementError(agreementID, burnResult.TxID, "mint", err))
	}
	log.Info("installment mint applied",
		zap.String("mint_tx_id", mintResult.TxID),
		zap.Int64("amount_base_units", settleBase),
		zap.String("token_id", settleToken))

	agreement, err := retry.Do(ctx, s.retryPolicy, ledger.IsTransient, func(ctx context.Context) (*contract.Agreement, error) {
		return s.agreements.GetAgreement(ctx, agreementID)
	})
	if err != nil {
		return nil, s.fail(ctx, agreementID, req,
			domainErrors.NewPartialSettlementError(agreementID, burnResult.TxID, "agreement read", err))
	}
	if err := validateAgreement(agreement, req.PayerAccountID, req.PayeeAccountID); err != nil {
		log.Error("agreement precondition violated after burn and mint", zap.Error(err))
		return nil, s.fail(ctx, agreementID, req,
			domainErrors.NewPartialSettlementError(agreementID, burnResult.TxID, "agreement validation", err))
	}

	contractResult, err := retry.Do(ctx, s.retryPolicy, ledger.IsTransient, func(ctx context.Context) (*ledger.TransferResult, error) {
		return s.agreements.RecordPayment(ctx, agreementID, req.PayerAccountID, req.PayeeAccountID, settleBase, settleToken, s.treasury)
	})
	if err != nil {
		log.Error("contract payment record failed after burn and mint",
			zap.String("burn_tx_id", burnResult.TxID),
			zap.Error(err))
		return nil, s.fail(ctx, agreementID, req,
			domainErrors.NewPartialSettlementError(agreementID, burnResult.TxID, "record payment", err))
	}

	installmentsPaid := agreement.InstallmentsPaid + 1
	completed := installmentsPaid >= agreement.InstallmentCount

	log.Info("installment settled",
		zap.String("contract_tx_id", contractResult.TxID),
		zap.Int("installments_paid", installmentsPaid),
		zap.Bool("completed", completed))

	s.notifyPosted(ctx, agreementID, req, chargeAmount, payerCurrency)

	return &dto.SettlementResult{
		AgreementID:        agreementID,
		ChargedAmount:      chargeAmount,
		PayerCurrency:      payerCurrency,
		SettlementAmount:   req.Amount,
		SettlementCurrency: req.SettlementCurrency,
		QuoteRate:          quoteRate,
		BurnTxID:           burnResult.TxID,
		MintTxID:           mintResult.TxID,
		ContractTxID:       contractResult.TxID,
		InstallmentsPaid:   installmentsPaid,
		Completed:          completed,
	}, nil
}

// resolveAgreementRef maps the caller-supplied identifier to a canonical
// agreement id. Hedera transaction ids carry an "@"; anything else is treated
// as an agreement id already. Resolution is idempotent on the contract side.
func (s *SettlementService) resolveAgreementRef(ctx context.Context, ref string) (string, error) {
	if !strings.Contains(ref, "@") {
		return ref, nil
	}

	agreementID, err := s.agreements.ResolveAgreementIDFromTxHash(ctx, ref)
	if err != nil {
		s.logger.Error("failed to resolve agreement from tx hash",
			zap.String("tx_hash", ref),
			zap.Error(err))
		return "", domainErrors.NewExternalServiceError("contract", "resolve agreement", err)
	}
	if agreementID == "" {
		return "", fmt.Errorf("%w: tx hash %s", domainErrors.ErrAgreementNotFound, ref)
	}
	return agreementID, nil
}

func (s *SettlementService) tokenFor(currency string) (string, error) {
	tokenID, ok := s.tokens[currency]
	if !ok {
		return "", fmt.Errorf("%w: %s", domainErrors.ErrTokenNotConfigured, currency)
	}
	return tokenID, nil
}

func (s *SettlementService) ensureAssociated(ctx context.Context, accountID, tokenID string, signer ledger.Signer) error {
	_, err := retry.Do(ctx, s.retryPolicy, ledger.IsTransient, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.tokenLedger.Associate(ctx, accountID, tokenID, signer)
	})
	if ledger.IsAlreadyAssociated(err) {
		return nil
	}
	return err
}

// fail emits best-effort failure notifications to both counterparties and
// returns the error unchanged.
func (s *SettlementService) fail(ctx context.Context, agreementID string, req dto.InstallmentRequest, cause error) error {
	metadata := model.JSONB{
		"agreement_id": agreementID,
		"error":        cause.Error(),
	}
	body := fmt.Sprintf("Installment payment on agreement %s failed: %v", agreementID, cause)
	for _, userID := range []string{req.PayerAccountID, req.PayeeAccountID} {
		if _, err := s.notifier.Create(ctx, userID, model.NotificationTypePaymentFailed, "Payment failed", body, metadata); err != nil {
			s.logger.Warn("failed to send failure notification",
				zap.String("user_id", userID),
				zap.String("agreement_id", agreementID),
				zap.Error(err))
		}
	}
	return cause
}

func (s *SettlementService) notifyPosted(ctx context.Context, agreementID string, req dto.InstallmentRequest, chargeAmount decimal.Decimal, payerCurrency string) {
	metadata := model.JSONB{
		"agreement_id":        agreementID,
		"settlement_amount":   req.Amount.String(),
		"settlement_currency": req.SettlementCurrency,
	}

	payerBody := fmt.Sprintf("You paid %s %s on agreement %s", chargeAmount.String(), payerCurrency, agreementID)
	if _, err := s.notifier.Create(ctx, req.PayerAccountID, model.NotificationTypePaymentPosted, "Payment posted", payerBody, metadata); err != nil {
		s.logger.Warn("failed to send payer notification",
			zap.String("agreement_id", agreementID),
			zap.Error(err))
	}

	payeeBody := fmt.Sprintf("You received %s %s on agreement %s", req.Amount.String(), req.SettlementCurrency, agreementID)
	if _, err := s.notifier.Create(ctx, req.PayeeAccountID, model.NotificationTypePaymentPosted, "Payment received", payeeBody, metadata); err != nil {
		s.logger.Warn("failed to send payee notification",
			zap.String("agreement_id", agreementID),
			zap.Error(err))
	}
}

func validateAgreement(agreement *contract.Agreement, payerAccountID, payeeAccountID string) error {
	if agreement.Completed {
		return fmt.Errorf("agreement %s is already completed", agreement.ID)
	}
	if agreement.ConsumerAccount != payerAccountID {
		return fmt.Errorf("agreement %s consumer %s does not match payer %s", agreement.ID, agreement.ConsumerAccount, payerAccountID)
	}
	if agreement.MerchantAccount != payeeAccountID {
		return fmt.Errorf("agreement %s merchant %s does not match payee %s", agreement.ID, agreement.MerchantAccount, payeeAccountID)
	}
	return nil
}

// toBaseUnits converts a two-decimal fiat amount to ledger base units
func toBaseUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
