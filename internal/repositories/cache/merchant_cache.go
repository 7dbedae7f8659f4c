package cache

import (
	"context"

	"droppay/internal/models"
)

// MerchantCache is the slice of the cache the services depend on. A nil
// merchant with a nil error is a miss.
type MerchantCache interface {
	GetMerchant(ctx context.Context, merchantID string) (*models.Merchant, error)
	GetMerchantIDByPiUser(ctx context.Context, piUserID string) (string, error)
	CacheMerchant(ctx context.Context, merchant *models.Merchant) error
	InvalidateMerchant(ctx context.Context, merchantID string) error
}

var _ MerchantCache = (*CacheService)(nil)

// Noop always misses. It is used when REDIS_ENABLED is false.
type Noop struct{}

func (Noop) GetMerchant(context.Context, string) (*models.Merchant, error) { return nil, nil }
func (Noop) GetMerchantIDByPiUser(context.Context, string) (string, error) { return "", nil }
func (Noop) CacheMerchant(context.Context, *models.Merchant) error         { return nil }
func (Noop) InvalidateMerchant(context.Context, string) error              { return nil }
