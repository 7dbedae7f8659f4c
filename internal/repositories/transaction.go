package repositories

import (
	"context"
	"fmt"

	"droppay/internal/models"

	"gorm.io/gorm"
)

// VerificationUpdate is what a blockchain check writes back to a row.
type VerificationUpdate struct {
	Verified        bool
	SenderAddress   string
	ReceiverAddress string
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	// RecentByTxID returns up to limit rows sharing txid, newest first.
	RecentByTxID(ctx context.Context, txid string, limit int) ([]models.Transaction, error)
	ApplyVerification(ctx context.Context, id string, update VerificationUpdate) (bool, error)
	ListByMerchant(ctx context.Context, merchantID string, limit, offset int) ([]models.Transaction, int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) RecentByTxID(ctx context.Context, txid string, limit int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("txid = ?", txid).
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find transactions for txid: %w", err)
	}
	return txs, nil
}

// ApplyVerification never moves a row back out of completed: a failed check
// leaves completed rows untouched and status is only written when the check
// passed. It reports whether this call moved the row to completed.
func (r *transactionRepository) ApplyVerification(ctx context.Context, id string, update VerificationUpdate) (bool, error) {
	fields := map[string]interface{}{
		"blockchain_verified": update.Verified,
		"sender_address":      update.SenderAddress,
		"receiver_address":    update.ReceiverAddress,
	}
	if !update.Verified {
		err := r.db.WithContext(ctx).Model(&models.Transaction{}).
			Where("id = ? AND status <> ?", id, models.TransactionStatusCompleted).
			Updates(fields).Error
		return false, err
	}

	fields["status"] = models.TransactionStatusCompleted
	result := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND status <> ?", id, models.TransactionStatusCompleted).
		Updates(fields)
	if result.Error != nil {
		return false, fmt.Errorf("failed to complete transaction: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	delete(fields, "status")
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ?", id).
		Updates(fields).Error
	return false, err
}

func (r *transactionRepository) ListByMerchant(ctx context.Context, merchantID string, limit, offset int) ([]models.Transaction, int64, error) {
	var txs []models.Transaction
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("merchant_id = ?", merchantID).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&txs).Error
	return txs, total, err
}
