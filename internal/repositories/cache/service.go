package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"droppay/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Merchant caching. A merchant is cached under its row id; the pi user id
// key stores only the row id so there is one copy of the balances.
func (s *CacheService) GetMerchant(ctx context.Context, merchantID string) (*models.Merchant, error) {
	var merchant models.Merchant
	found, err := s.Get(ctx, GenerateKey("merchant", "id", merchantID), &merchant)
	if err != nil || !found {
		return nil, err
	}
	return &merchant, nil
}

func (s *CacheService) GetMerchantIDByPiUser(ctx context.Context, piUserID string) (string, error) {
	var id string
	found, err := s.Get(ctx, GenerateKey("merchant", "pi_user", piUserID), &id)
	if err != nil || !found {
		return "", err
	}
	return id, nil
}

func (s *CacheService) CacheMerchant(ctx context.Context, merchant *models.Merchant) error {
	if merchant == nil {
		return errors.New("cannot cache nil merchant")
	}
	if err := s.Set(ctx, GenerateKey("merchant", "id", merchant.ID), merchant); err != nil {
		return err
	}
	return s.Set(ctx, GenerateKey("merchant", "pi_user", merchant.PiUserID), merchant.ID)
}

// InvalidateMerchant drops the balance-bearing entry. The pi user mapping
// never changes and is left in place.
func (s *CacheService) InvalidateMerchant(ctx context.Context, merchantID string) error {
	return s.Delete(ctx, GenerateKey("merchant", "id", merchantID))
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
