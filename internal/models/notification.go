package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationTypeReward     = "ad_reward"
	NotificationTypePayment    = "payment"
	NotificationTypeWithdrawal = "withdrawal"
)

type Notification struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	MerchantID string    `gorm:"index;not null;type:varchar(36)" json:"merchant_id"`
	Type       string    `gorm:"not null" json:"type"`
	Title      string    `gorm:"not null" json:"title"`
	Message    string    `json:"message"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
