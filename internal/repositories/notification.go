package repositories

import (
	"context"

	"droppay/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByMerchant(ctx context.Context, merchantID string, limit, offset int) ([]models.Notification, int64, error)
	MarkRead(ctx context.Context, id, merchantID string) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) ListByMerchant(ctx context.Context, merchantID string, limit, offset int) ([]models.Notification, int64, error) {
	var items []models.Notification
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Notification{}).Where("merchant_id = ?", merchantID).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, merchantID string) error {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND merchant_id = ?", id, merchantID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationMissing
	}
	return nil
}
