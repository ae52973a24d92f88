package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTermsRequest is the offer a merchant or buyer submits to open a BNPL
// negotiation. Amounts arrive as strings and are parsed to decimals at the
// handler boundary.
type CreateTermsRequest struct {
	PaymentReference  string `json:"payment_reference" validate:"required,max=200"`
	BuyerAccountID    string `json:"buyer_account_id" validate:"required"`
	MerchantAccountID string `json:"merchant_account_id" validate:"required"`
	Principal         string `json:"principal" validate:"required"`
	Currency          string `json:"currency" validate:"required,len=3"`
	InstallmentCount  int    `json:"installment_count" validate:"required,min=1,max=24"`
	InterestRate      string `json:"interest_rate" validate:"required"`
}

// RejectTermsRequest carries the optional rejection reason
type RejectTermsRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

// TermsOffer is the parsed, validated form of CreateTermsRequest handed to the
// terms service.
type TermsOffer struct {
	PaymentReference  string
	BuyerAccountID    string
	MerchantAccountID string
	Principal         decimal.Decimal
	Currency          string
	InstallmentCount  int
	InterestRate      decimal.Decimal
}

// TermsListResponse wraps a page of terms records
type TermsListResponse struct {
	Terms      []TermsSummary `json:"terms"`
	Pagination PaginationInfo `json:"pagination"`
}

// TermsSummary is the list-view projection of a terms record
type TermsSummary struct {
	ID                string    `json:"id"`
	PaymentReference  string    `json:"payment_reference"`
	Status            string    `json:"status"`
	Principal         string    `json:"principal"`
	Currency          string    `json:"currency"`
	InstallmentCount  int       `json:"installment_count"`
	InstallmentAmount string    `json:"installment_amount"`
	ExpiresAt         time.Time `json:"expires_at"`
	CreatedAt         time.Time `json:"created_at"`
}

// PaginationInfo describes a result page
type PaginationInfo struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}
