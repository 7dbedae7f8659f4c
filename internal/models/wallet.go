package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Withdrawal statuses
const (
	WithdrawalStatusPending = "pending"
)

// Withdrawal is a merchant's request to move available balance to their
// Pi wallet. The balance is reserved when the row is created.
type Withdrawal struct {
	ID            string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	MerchantID    string          `gorm:"index;not null;type:varchar(36)" json:"merchant_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,7);not null" json:"amount"`
	WalletAddress string          `json:"wallet_address"`
	Status        string          `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (w *Withdrawal) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.Status == "" {
		w.Status = WithdrawalStatusPending
	}
	return nil
}
