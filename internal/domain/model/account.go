package model

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a custodial ledger account held on behalf of a user.
// The Hedera private key is stored AES-GCM encrypted; the key cipher service
// decrypts it when the account must authorize a token burn.
type Account struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	HederaAccountID     string    `gorm:"size:100;not null;uniqueIndex" json:"hedera_account_id"`
	PublicKey           string    `gorm:"size:200;not null" json:"public_key"`
	EncryptedPrivateKey string    `gorm:"not null" json:"-"`
	EncryptionIV        string    `gorm:"size:100;not null" json:"-"`
	PreferredCurrency   string    `gorm:"size:3;not null;default:'ZAR'" json:"preferred_currency"`
	CreatedAt           time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt           time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Account) TableName() string {
	return "accounts"
}
