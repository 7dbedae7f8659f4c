package repositories

import (
	"context"
	"errors"
	"fmt"

	"droppay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdRewardRepository interface {
	GetByAdID(ctx context.Context, adID string) (*models.AdReward, error)
	// Insert stores reward unless one already exists for its ad_id and
	// reports whether this call wrote the row.
	Insert(ctx context.Context, reward *models.AdReward) (bool, error)
}

type adRewardRepository struct {
	db *gorm.DB
}

func NewAdRewardRepository(db *gorm.DB) AdRewardRepository {
	return &adRewardRepository{db: db}
}

func (r *adRewardRepository) GetByAdID(ctx context.Context, adID string) (*models.AdReward, error) {
	var reward models.AdReward
	if err := r.db.WithContext(ctx).Where("ad_id = ?", adID).First(&reward).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, fmt.Errorf("failed to get ad reward: %w", err)
	}
	return &reward, nil
}

func (r *adRewardRepository) Insert(ctx context.Context, reward *models.AdReward) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ad_id"}},
			DoNothing: true,
		}).
		Create(reward)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert ad reward: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}
