package repositories

import (
	"context"
	"fmt"

	"droppay/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletRepository owns every write to merchant balance columns. All writes
// are single atomic UPDATE statements so concurrent credits never lose an
// increment.
type WalletRepository interface {
	// Credit adds amount to both available_balance and total_revenue.
	Credit(ctx context.Context, merchantID string, amount decimal.Decimal) error
	// ReserveWithdrawal debits available_balance when it covers the amount and
	// records the withdrawal, in one database transaction.
	ReserveWithdrawal(ctx context.Context, w *models.Withdrawal) error
	ListWithdrawals(ctx context.Context, merchantID string, limit, offset int) ([]models.Withdrawal, int64, error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{
		db: db,
	}
}

func (r *walletRepository) Credit(ctx context.Context, merchantID string, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.Merchant{}).
		Where("id = ?", merchantID).
		Updates(map[string]interface{}{
			"available_balance": gorm.Expr("available_balance + ?", amount),
			"total_revenue":     gorm.Expr("total_revenue + ?", amount),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to credit merchant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMerchantNotFound
	}
	return nil
}

func (r *walletRepository) ReserveWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Merchant{}).
			Where("id = ? AND available_balance >= ?", w.MerchantID, w.Amount).
			Update("available_balance", gorm.Expr("available_balance - ?", w.Amount))
		if result.Error != nil {
			return fmt.Errorf("failed to debit merchant: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrInsufficientBalance
		}
		if err := tx.Create(w).Error; err != nil {
			return fmt.Errorf("failed to record withdrawal: %w", err)
		}
		return nil
	})
}

func (r *walletRepository) ListWithdrawals(ctx context.Context, merchantID string, limit, offset int) ([]models.Withdrawal, int64, error) {
	var items []models.Withdrawal
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Withdrawal{}).Where("merchant_id = ?", merchantID).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}
