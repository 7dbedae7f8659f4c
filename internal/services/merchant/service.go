package merchant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"droppay/internal/config"
	apperr "droppay/internal/errors"
	"droppay/internal/models"
	"droppay/internal/pinetwork"
	"droppay/internal/repositories"
	"droppay/internal/repositories/cache"
	"droppay/internal/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type PiClient interface {
	Me(ctx context.Context, accessToken string) (*pinetwork.User, error)
}

type Service struct {
	merchants repositories.MerchantRepository
	apiKeys   repositories.APIKeyRepository
	cache     cache.MerchantCache
	client    PiClient
	secrets   config.SecretSource
}

func NewService(
	merchants repositories.MerchantRepository,
	apiKeys repositories.APIKeyRepository,
	merchantCache cache.MerchantCache,
	client PiClient,
	secrets config.SecretSource,
) *Service {
	if merchantCache == nil {
		merchantCache = cache.Noop{}
	}
	return &Service{
		merchants: merchants,
		apiKeys:   apiKeys,
		cache:     merchantCache,
		client:    client,
		secrets:   secrets,
	}
}

// EnsureProfile returns the merchant for a Pi user, creating it on first
// sight. It runs with the service credential and never modifies an
// existing row. A session is issued only when accessToken proves the caller
// is that Pi user; without one the row is returned bare.
func (s *Service) EnsureProfile(ctx context.Context, input CreateProfileInput) (*ProfileResult, error) {
	secrets, err := config.Require(s.secrets, config.ServiceRoleKey, config.JWTSecret)
	if err != nil {
		return nil, err
	}
	if input.PiUserID == "" {
		return nil, fmt.Errorf("%w: piUserId", apperr.ErrMissingField)
	}
	if input.PiUsername == "" {
		return nil, fmt.Errorf("%w: piUsername", apperr.ErrMissingField)
	}

	verified := false
	if input.AccessToken != "" {
		if err := s.checkIdentity(ctx, input.AccessToken, input.PiUserID); err != nil {
			return nil, err
		}
		verified = true
	}

	merchant, created, err := s.findOrCreate(ctx, input)
	if err != nil {
		return nil, err
	}

	result := &ProfileResult{Merchant: merchant, Created: created}
	if !verified {
		return result, nil
	}

	token, err := utils.GenerateSessionToken(secrets[config.JWTSecret], merchant, utils.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}
	result.SessionToken = token
	return result, nil
}

// findOrCreate tries the pi user cache mapping before touching the store.
func (s *Service) findOrCreate(ctx context.Context, input CreateProfileInput) (*models.Merchant, bool, error) {
	if id, err := s.cache.GetMerchantIDByPiUser(ctx, input.PiUserID); err == nil && id != "" {
		if merchant, err := s.GetProfile(ctx, id); err == nil {
			return merchant, false, nil
		}
	}

	merchant, created, err := s.merchants.CreateIfAbsent(ctx, &models.Merchant{
		PiUserID:         input.PiUserID,
		PiUsername:       input.PiUsername,
		WalletAddress:    input.WalletAddress,
		AvailableBalance: decimal.Zero,
		TotalRevenue:     decimal.Zero,
		IsActive:         true,
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		log.Printf("Created merchant %s for Pi user %s", merchant.ID, merchant.PiUsername)
	}

	if err := s.cache.CacheMerchant(ctx, merchant); err != nil {
		log.Printf("Error caching merchant %s: %v", merchant.ID, err)
	}
	return merchant, created, nil
}

// checkIdentity confirms the access token belongs to piUserID.
func (s *Service) checkIdentity(ctx context.Context, accessToken, piUserID string) error {
	user, err := s.client.Me(ctx, accessToken)
	if err != nil {
		var upErr *pinetwork.UpstreamError
		if errors.As(err, &upErr) && (upErr.Status == http.StatusUnauthorized || upErr.Status == http.StatusForbidden) {
			return ErrIdentityMismatch
		}
		return err
	}
	if user.UID != piUserID {
		return ErrIdentityMismatch
	}
	return nil
}

// ParseSession validates a bearer session token.
func (s *Service) ParseSession(token string) (*models.SessionClaims, error) {
	secrets, err := config.Require(s.secrets, config.JWTSecret)
	if err != nil {
		return nil, err
	}
	return utils.ParseSessionToken(secrets[config.JWTSecret], token)
}

func (s *Service) GetProfile(ctx context.Context, merchantID string) (*models.Merchant, error) {
	if cached, err := s.cache.GetMerchant(ctx, merchantID); err == nil && cached != nil {
		return cached, nil
	}

	merchant, err := s.merchants.GetByID(ctx, merchantID)
	if err != nil {
		if errors.Is(err, repositories.ErrMerchantNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, err
	}

	if err := s.cache.CacheMerchant(ctx, merchant); err != nil {
		log.Printf("Error caching merchant %s: %v", merchant.ID, err)
	}
	return merchant, nil
}

func (s *Service) UpdateProfile(ctx context.Context, merchantID string, input UpdateProfileInput) (*models.Merchant, error) {
	merchant, err := s.merchants.GetByID(ctx, merchantID)
	if err != nil {
		if errors.Is(err, repositories.ErrMerchantNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, err
	}

	if input.BusinessName != nil {
		merchant.BusinessName = strings.TrimSpace(*input.BusinessName)
	}
	if input.WalletAddress != nil {
		merchant.WalletAddress = strings.TrimSpace(*input.WalletAddress)
	}
	if err := s.merchants.Update(ctx, merchant); err != nil {
		return nil, fmt.Errorf("failed to update merchant: %w", err)
	}

	if err := s.cache.InvalidateMerchant(ctx, merchantID); err != nil {
		log.Printf("Error invalidating merchant cache for %s: %v", merchantID, err)
	}
	return merchant, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]models.Merchant, int64, error) {
	return s.merchants.List(ctx, limit, offset)
}

// SetAdmin grants or revokes admin rights. Existing sessions keep their old
// claim until they expire.
func (s *Service) SetAdmin(ctx context.Context, merchantID string, isAdmin bool) error {
	if err := s.merchants.SetAdmin(ctx, merchantID, isAdmin); err != nil {
		if errors.Is(err, repositories.ErrMerchantNotFound) {
			return ErrMerchantNotFound
		}
		return err
	}
	return s.cache.InvalidateMerchant(ctx, merchantID)
}

// IssueAPIKey creates a key of the form dp_<prefix>_<secret>. Only a bcrypt
// hash of the secret is stored.
func (s *Service) IssueAPIKey(ctx context.Context, merchantID string) (*IssuedKey, error) {
	if _, err := s.GetProfile(ctx, merchantID); err != nil {
		return nil, err
	}

	prefix, secret, err := utils.NewAPIKeySecret()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash api key: %w", err)
	}

	record := &models.APIKey{
		MerchantID: merchantID,
		Prefix:     prefix,
		SecretHash: string(hash),
	}
	if err := s.apiKeys.Create(ctx, record); err != nil {
		return nil, err
	}

	return &IssuedKey{
		Key:       utils.FormatAPIKey(prefix, secret),
		Prefix:    prefix,
		Record:    record,
		CreatedAt: record.CreatedAt.Format(time.RFC3339),
	}, nil
}

// AuthenticateAPIKey resolves a raw key to its active merchant.
func (s *Service) AuthenticateAPIKey(ctx context.Context, raw string) (*models.Merchant, error) {
	prefix, secret, ok := utils.ParseAPIKey(raw)
	if !ok {
		return nil, ErrInvalidAPIKey
	}

	key, err := s.apiKeys.GetActiveByPrefix(ctx, prefix)
	if err != nil {
		if errors.Is(err, repositories.ErrAPIKeyNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(key.SecretHash), []byte(secret)); err != nil {
		return nil, ErrInvalidAPIKey
	}

	merchant, err := s.GetProfile(ctx, key.MerchantID)
	if err != nil {
		return nil, err
	}
	if !merchant.IsActive {
		return nil, ErrInvalidAPIKey
	}
	return merchant, nil
}
