// Package reward credits merchants for rewarded-ad impressions. Each ad id
// is processed at most once; the ad network's mediator decides whether the
// impression earns the reward.
package reward

import (
	"context"
	"errors"
	"fmt"
	"log"

	"droppay/internal/config"
	apperr "droppay/internal/errors"
	"droppay/internal/metrics"
	"droppay/internal/models"
	"droppay/internal/pinetwork"
	"droppay/internal/repositories"

	"github.com/shopspring/decimal"
)

// Amount is the fixed Pi credited per granted impression.
var Amount = decimal.RequireFromString("0.005")

type Service interface {
	Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error)
}

type PiClient interface {
	AdStatus(ctx context.Context, apiKey, adID string) (*pinetwork.AdStatus, error)
}

type WalletService interface {
	Credit(ctx context.Context, merchantID string, amount decimal.Decimal) error
}

type Notifier interface {
	SendReward(ctx context.Context, merchantID string, amount decimal.Decimal) error
}

type VerifyRequest struct {
	AdID       string `json:"adId"`
	MerchantID string `json:"merchantId"`
	PiUsername string `json:"piUsername"`
}

type VerifyResult struct {
	Success          bool    `json:"success"`
	AlreadyProcessed bool    `json:"alreadyProcessed"`
	Status           string  `json:"status"`
	RewardAmount     float64 `json:"rewardAmount"`
	MediatorStatus   string  `json:"mediatorStatus,omitempty"`
}

type service struct {
	rewards       repositories.AdRewardRepository
	client        PiClient
	secrets       config.SecretSource
	walletService WalletService
	notifier      Notifier
	metrics       metrics.Recorder
}

func NewService(
	rewards repositories.AdRewardRepository,
	client PiClient,
	secrets config.SecretSource,
	walletSvc WalletService,
	notifier Notifier,
	recorder metrics.Recorder,
) Service {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &service{
		rewards:       rewards,
		client:        client,
		secrets:       secrets,
		walletService: walletSvc,
		notifier:      notifier,
		metrics:       recorder,
	}
}

func stored(r *models.AdReward) *VerifyResult {
	return &VerifyResult{
		Success:          true,
		AlreadyProcessed: true,
		Status:           r.Status,
		RewardAmount:     r.RewardAmount.InexactFloat64(),
		MediatorStatus:   r.MediatorAckStatus,
	}
}

func (s *service) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	secrets, err := config.Require(s.secrets, config.PiAPIKey)
	if err != nil {
		return nil, err
	}
	if req.AdID == "" {
		return nil, fmt.Errorf("%w: adId", apperr.ErrMissingField)
	}

	existing, err := s.rewards.GetByAdID(ctx, req.AdID)
	if err == nil {
		s.metrics.RecordReward(existing.Status, true)
		return stored(existing), nil
	}
	if !errors.Is(err, repositories.ErrRewardNotFound) {
		return nil, err
	}

	status, err := s.client.AdStatus(ctx, secrets[config.PiAPIKey], req.AdID)
	if err != nil {
		log.Printf("Error fetching ad status for %s: %v", req.AdID, err)
		s.metrics.RecordError("reward", "upstream")
		return nil, err
	}

	reward := &models.AdReward{
		AdID:              req.AdID,
		PiUsername:        req.PiUsername,
		RewardAmount:      Amount,
		Status:            models.RewardStatusPending,
		MediatorAckStatus: status.MediatorAckStatus,
	}
	if status.Granted() {
		reward.Status = models.RewardStatusGranted
	}
	if req.MerchantID != "" {
		merchantID := req.MerchantID
		reward.MerchantID = &merchantID
	}

	inserted, err := s.rewards.Insert(ctx, reward)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// A concurrent request stored this ad first and owns the credit.
		winner, err := s.rewards.GetByAdID(ctx, req.AdID)
		if err != nil {
			return nil, err
		}
		s.metrics.RecordReward(winner.Status, true)
		return stored(winner), nil
	}

	s.metrics.RecordReward(reward.Status, false)
	if reward.Status == models.RewardStatusGranted && req.MerchantID != "" {
		s.credit(ctx, req.MerchantID, reward)
	}

	return &VerifyResult{
		Success:        true,
		Status:         reward.Status,
		RewardAmount:   reward.RewardAmount.InexactFloat64(),
		MediatorStatus: reward.MediatorAckStatus,
	}, nil
}

// credit is best effort: the reward row is already the record of truth.
func (s *service) credit(ctx context.Context, merchantID string, reward *models.AdReward) {
	if err := s.walletService.Credit(ctx, merchantID, reward.RewardAmount); err != nil {
		log.Printf("Error crediting merchant %s for ad %s: %v", merchantID, reward.AdID, err)
		s.metrics.RecordError("reward", "credit")
		return
	}
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendReward(ctx, merchantID, reward.RewardAmount); err != nil {
		log.Printf("Error notifying merchant %s of ad reward: %v", merchantID, err)
	}
}
