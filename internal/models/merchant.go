package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Merchant is a seller account keyed by its Pi Network user id. Rows are
// deactivated through IsActive and never hard-deleted.
type Merchant struct {
	ID               string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PiUserID         string          `gorm:"uniqueIndex;not null" json:"pi_user_id"`
	PiUsername       string          `gorm:"not null" json:"pi_username"`
	WalletAddress    string          `json:"wallet_address"`
	BusinessName     string          `json:"business_name"`
	AvailableBalance decimal.Decimal `gorm:"type:numeric(20,7);not null;default:0" json:"available_balance"`
	TotalRevenue     decimal.Decimal `gorm:"type:numeric(20,7);not null;default:0" json:"total_revenue"`
	IsAdmin          bool            `gorm:"default:false" json:"is_admin"`
	IsActive         bool            `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (m *Merchant) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// APIKey authenticates server-to-server calls for a merchant. Only the
// bcrypt hash of the secret half is stored.
type APIKey struct {
	ID         string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	MerchantID string     `gorm:"index;not null;type:varchar(36)" json:"merchant_id"`
	Prefix     string     `gorm:"uniqueIndex;not null" json:"prefix"`
	SecretHash string     `gorm:"not null" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

func (k *APIKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	return nil
}
