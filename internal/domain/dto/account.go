package dto

// RegisterAccountRequest links a user to a custodial ledger account. The
// private key is encrypted before it touches the database.
type RegisterAccountRequest struct {
	HederaAccountID   string `json:"hedera_account_id" validate:"required"`
	PublicKey         string `json:"public_key" validate:"required"`
	PrivateKey        string `json:"private_key" validate:"required"`
	PreferredCurrency string `json:"preferred_currency" validate:"required,len=3"`
}
