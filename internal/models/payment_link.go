package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Link kinds
const (
	LinkKindPayment  = "payment"
	LinkKindCheckout = "checkout"
)

// PaymentLink is a merchant-owned shareable link for a fixed amount.
type PaymentLink struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	MerchantID  string          `gorm:"index;not null;type:varchar(36)" json:"merchant_id"`
	Slug        string          `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,7);not null" json:"amount"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	Metadata    JSON            `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (l *PaymentLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// CheckoutLink shares the payment link shape but lives in its own table.
type CheckoutLink struct {
	PaymentLink
}

func (CheckoutLink) TableName() string { return "checkout_links" }

// Link is the common view over both link tables.
func (l *PaymentLink) Link(kind string) *Link {
	return &Link{Kind: kind, PaymentLink: *l}
}

// Link is a payment or checkout link tagged with the table it came from.
type Link struct {
	Kind string `json:"kind"`
	PaymentLink
}
