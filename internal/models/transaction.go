package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
)

// MetadataSourceLinkID is the metadata key that ties a transaction to a
// checkout link, which has no column of its own.
const MetadataSourceLinkID = "source_link_id"

// MetadataReportedAmount holds the amount the paying client claimed. It is
// informational; the link price is what the transaction owes.
const MetadataReportedAmount = "reported_amount"

// Transaction is one payment attempt. TxID is indexed but not unique: a
// payment link row and a checkout link row can share the same txid.
type Transaction struct {
	ID                 string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	MerchantID         *string         `gorm:"index;type:varchar(36)" json:"merchant_id,omitempty"`
	PaymentLinkID      *string         `gorm:"index;type:varchar(36)" json:"payment_link_id,omitempty"`
	PiPaymentID        string          `gorm:"index" json:"pi_payment_id"`
	TxID               string          `gorm:"column:txid;index" json:"txid"`
	Amount             decimal.Decimal `gorm:"type:numeric(20,7);not null;default:0" json:"amount"`
	Status             string          `gorm:"not null;default:'pending'" json:"status"`
	BlockchainVerified bool            `gorm:"default:false" json:"blockchain_verified"`
	SenderAddress      string          `json:"sender_address"`
	ReceiverAddress    string          `json:"receiver_address"`
	PayerUsername      string          `json:"payer_username"`
	Metadata           JSON            `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TransactionStatusPending
	}
	return nil
}
