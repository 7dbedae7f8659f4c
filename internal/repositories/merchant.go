package repositories

import (
	"context"
	"errors"
	"fmt"

	"droppay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MerchantRepository interface {
	GetByID(ctx context.Context, id string) (*models.Merchant, error)
	GetByPiUserID(ctx context.Context, piUserID string) (*models.Merchant, error)
	// CreateIfAbsent inserts merchant unless a row with the same pi_user_id
	// exists. It reports whether this call created the row; either way the
	// returned merchant is the stored one.
	CreateIfAbsent(ctx context.Context, merchant *models.Merchant) (*models.Merchant, bool, error)
	Update(ctx context.Context, merchant *models.Merchant) error
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
	List(ctx context.Context, limit, offset int) ([]models.Merchant, int64, error)
}

type merchantRepository struct {
	db *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) MerchantRepository {
	return &merchantRepository{
		db: db,
	}
}

func (r *merchantRepository) GetByID(ctx context.Context, id string) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	return &merchant, nil
}

func (r *merchantRepository) GetByPiUserID(ctx context.Context, piUserID string) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).Where("pi_user_id = ?", piUserID).First(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	return &merchant, nil
}

func (r *merchantRepository) CreateIfAbsent(ctx context.Context, merchant *models.Merchant) (*models.Merchant, bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pi_user_id"}},
			DoNothing: true,
		}).
		Create(merchant)
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to create merchant: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return merchant, true, nil
	}

	// Lost the insert race; the winner's row is authoritative.
	existing, err := r.GetByPiUserID(ctx, merchant.PiUserID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *merchantRepository) Update(ctx context.Context, merchant *models.Merchant) error {
	if merchant.ID == "" {
		return errors.New("cannot update merchant without ID")
	}
	// Balances are only ever changed through WalletRepository.
	return r.db.WithContext(ctx).Model(&models.Merchant{}).
		Where("id = ?", merchant.ID).
		Select("pi_username", "wallet_address", "business_name").
		Updates(merchant).Error
}

func (r *merchantRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	result := r.db.WithContext(ctx).Model(&models.Merchant{}).
		Where("id = ?", id).
		Update("is_admin", isAdmin)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMerchantNotFound
	}
	return nil
}

func (r *merchantRepository) List(ctx context.Context, limit, offset int) ([]models.Merchant, int64, error) {
	var merchants []models.Merchant
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Merchant{}).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&merchants).Error
	return merchants, total, err
}
