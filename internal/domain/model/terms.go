package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TermsStatus represents the lifecycle status of a BNPL terms record
type TermsStatus string

const (
	TermsStatusPending   TermsStatus = "PENDING"
	TermsStatusAccepted  TermsStatus = "ACCEPTED"
	TermsStatusRejected  TermsStatus = "REJECTED"
	TermsStatusExpired   TermsStatus = "EXPIRED"
	TermsStatusCompleted TermsStatus = "COMPLETED"
)

// Scan implements sql.Scanner interface
func (s *TermsStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = TermsStatus(v)
	case []byte:
		*s = TermsStatus(v)
	default:
		return nil
	}
	return nil
}

// Value implements driver.Valuer interface
func (s TermsStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// BNPLTerms represents a negotiated buy-now-pay-later financing offer.
// The record is never deleted; status is the deletion marker.
type BNPLTerms struct {
	ID                uuid.UUID       `gorm:"primaryKey;type:uuid" json:"id"`
	PaymentReference  string          `gorm:"size:200;not null;index" json:"payment_reference"`
	BuyerAccountID    string          `gorm:"size:100;not null;index" json:"buyer_account_id"`
	MerchantAccountID string          `gorm:"size:100;not null;index" json:"merchant_account_id"`
	Principal         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"principal"`
	Currency          string          `gorm:"size:3;not null" json:"currency"`
	InstallmentCount  int             `gorm:"not null" json:"installment_count"`
	InstallmentAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"installment_amount"`
	InterestRate      decimal.Decimal `gorm:"type:decimal(7,4);not null" json:"interest_rate"`
	TotalInterest     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_interest"`
	TotalWithInterest decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_with_interest"`
	Status            TermsStatus     `gorm:"type:terms_status;not null;index" json:"status"`
	AgreementID       *string         `gorm:"size:100;index" json:"agreement_id,omitempty"`
	AgreementTxID     *string         `gorm:"size:200" json:"agreement_tx_id,omitempty"`
	AcceptedAt        *time.Time      `json:"accepted_at,omitempty"`
	RejectedAt        *time.Time      `json:"rejected_at,omitempty"`
	RejectionReason   *string         `json:"rejection_reason,omitempty"`
	ExpiresAt         time.Time       `gorm:"not null;index" json:"expires_at"`
	CreatedAt         time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (BNPLTerms) TableName() string {
	return "bnpl_terms"
}

// NewBNPLTerms builds a PENDING terms record from an offer, computing the
// derived amounts: total interest, total with interest and the per-installment
// amount, all rounded to two decimal places.
func NewBNPLTerms(
	paymentReference string,
	buyerAccountID string,
	merchantAccountID string,
	principal decimal.Decimal,
	currency string,
	installmentCount int,
	interestRate decimal.Decimal,
	validity time.Duration,
) *BNPLTerms {
	totalInterest := principal.Mul(interestRate).Div(decimal.NewFromInt(100)).Round(2)
	totalWithInterest := principal.Add(totalInterest)
	installmentAmount := totalWithInterest.Div(decimal.NewFromInt(int64(installmentCount))).Round(2)

	now := time.Now()
	return &BNPLTerms{
		ID:                uuid.New(),
		PaymentReference:  paymentReference,
		BuyerAccountID:    buyerAccountID,
		MerchantAccountID: merchantAccountID,
		Principal:         principal,
		Currency:          currency,
		InstallmentCount:  installmentCount,
		InstallmentAmount: installmentAmount,
		InterestRate:      interestRate,
		TotalInterest:     totalInterest,
		TotalWithInterest: totalWithInterest,
		Status:            TermsStatusPending,
		ExpiresAt:         now.Add(validity),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// IsExpired reports whether the offer window has passed. A PENDING record past
// its expiry must be treated as EXPIRED even before the expiry write lands.
func (t *BNPLTerms) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IsParty reports whether the account is the buyer or the merchant on the
// terms record. Only parties may accept or reject.
func (t *BNPLTerms) IsParty(accountID string) bool {
	return accountID == t.BuyerAccountID || accountID == t.MerchantAccountID
}

// Counterparty returns the other party relative to the acting account.
func (t *BNPLTerms) Counterparty(accountID string) string {
	if accountID == t.BuyerAccountID {
		return t.MerchantAccountID
	}
	return t.BuyerAccountID
}

// InterestRateBps returns the nominal interest rate encoded as integer basis
// points, the representation the agreement contract expects.
func (t *BNPLTerms) InterestRateBps() int64 {
	return t.InterestRate.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
