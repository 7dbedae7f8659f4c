package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ad reward statuses
const (
	RewardStatusPending = "pending"
	RewardStatusGranted = "granted"
)

// AdReward is one credited rewarded-ad impression. AdID is the natural
// idempotency key and is unique.
type AdReward struct {
	ID                string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AdID              string          `gorm:"column:ad_id;uniqueIndex;not null" json:"ad_id"`
	MerchantID        *string         `gorm:"index;type:varchar(36)" json:"merchant_id,omitempty"`
	PiUsername        string          `json:"pi_username"`
	RewardAmount      decimal.Decimal `gorm:"type:numeric(20,7);not null" json:"reward_amount"`
	Status            string          `gorm:"not null;default:'pending'" json:"status"`
	MediatorAckStatus string          `json:"mediator_ack_status"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (r *AdReward) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
