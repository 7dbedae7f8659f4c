package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"

	"droppay/internal/metrics"
	"droppay/internal/models"
	"droppay/internal/repositories"
	"droppay/internal/repositories/cache"

	"github.com/shopspring/decimal"
)

type service struct {
	repo      repositories.WalletRepository
	merchants repositories.MerchantRepository
	cache     cache.MerchantCache
	notifier  Notifier
	metrics   metrics.Recorder
}

// NewService creates a new wallet service
func NewService(
	repo repositories.WalletRepository,
	merchants repositories.MerchantRepository,
	merchantCache cache.MerchantCache,
	notifier Notifier,
	recorder metrics.Recorder,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if merchants == nil {
		panic("merchant repo is required")
	}
	if merchantCache == nil {
		merchantCache = cache.Noop{}
	}
	// Metrics is optional
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	return &service{
		repo:      repo,
		merchants: merchants,
		cache:     merchantCache,
		notifier:  notifier,
		metrics:   recorder,
	}
}

func (s *service) Credit(ctx context.Context, merchantID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if err := s.repo.Credit(ctx, merchantID, amount); err != nil {
		s.metrics.RecordError("credit", "store")
		if errors.Is(err, repositories.ErrMerchantNotFound) {
			return fmt.Errorf("credit %s: %w", merchantID, err)
		}
		return err
	}

	s.invalidate(ctx, merchantID)
	s.metrics.RecordCredit(amount.InexactFloat64())
	return nil
}

func (s *service) Withdraw(ctx context.Context, merchantID string, amount decimal.Decimal) (*models.Withdrawal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	merchant, err := s.merchants.GetByID(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if merchant.WalletAddress == "" {
		return nil, ErrNoWalletAddress
	}

	w := &models.Withdrawal{
		MerchantID:    merchantID,
		Amount:        amount,
		WalletAddress: merchant.WalletAddress,
	}
	if err := s.repo.ReserveWithdrawal(ctx, w); err != nil {
		if errors.Is(err, repositories.ErrInsufficientBalance) {
			return nil, ErrInsufficientBalance
		}
		s.metrics.RecordError("withdraw", "store")
		return nil, err
	}

	s.invalidate(ctx, merchantID)
	log.Printf("Withdrawal %s of %s reserved for merchant %s", w.ID, amount, merchantID)
	if s.notifier != nil {
		if err := s.notifier.SendWithdrawal(ctx, merchantID, w); err != nil {
			log.Printf("Error notifying merchant %s of withdrawal: %v", merchantID, err)
		}
	}
	return w, nil
}

func (s *service) WalletAddress(ctx context.Context, merchantID string) (string, error) {
	if cached, err := s.cache.GetMerchant(ctx, merchantID); err == nil && cached != nil {
		return cached.WalletAddress, nil
	}
	merchant, err := s.merchants.GetByID(ctx, merchantID)
	if err != nil {
		return "", err
	}
	return merchant.WalletAddress, nil
}

func (s *service) ListWithdrawals(ctx context.Context, merchantID string, limit, offset int) ([]models.Withdrawal, int64, error) {
	return s.repo.ListWithdrawals(ctx, merchantID, limit, offset)
}

func (s *service) invalidate(ctx context.Context, merchantID string) {
	if err := s.cache.InvalidateMerchant(ctx, merchantID); err != nil {
		log.Printf("Error invalidating merchant cache for %s: %v", merchantID, err)
	}
}
