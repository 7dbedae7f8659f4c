// Package links manages the payment and checkout links merchants share
// with customers.
package links

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperr "droppay/internal/errors"
	"droppay/internal/models"
	"droppay/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const slugLength = 10

type CreateInput struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Amount      decimal.Decimal        `json:"amount"`
	Checkout    bool                   `json:"checkout"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type Service struct {
	repo repositories.LinkRepository
}

func NewService(repo repositories.LinkRepository) *Service {
	return &Service{repo: repo}
}

func newSlug() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:slugLength]
}

func kindOf(checkout bool) string {
	if checkout {
		return models.LinkKindCheckout
	}
	return models.LinkKindPayment
}

func (s *Service) Create(ctx context.Context, merchantID string, input CreateInput) (*models.Link, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title", apperr.ErrMissingField)
	}
	if !input.Amount.IsPositive() {
		return nil, apperr.ErrInvalidAmount
	}

	link := &models.PaymentLink{
		MerchantID:  merchantID,
		Slug:        newSlug(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount.Round(7),
		IsActive:    true,
	}
	if len(input.Metadata) > 0 {
		link.Metadata = models.NewJSON(input.Metadata)
	}
	return s.repo.Create(ctx, kindOf(input.Checkout), link)
}

func (s *Service) List(ctx context.Context, merchantID string) ([]models.Link, error) {
	return s.repo.ListByMerchant(ctx, merchantID)
}

// GetBySlug is the public lookup. Inactive links are reported as missing.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.Link, error) {
	link, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrLinkNotFound) {
			return nil, apperr.ErrLinkNotFound
		}
		return nil, err
	}
	if !link.IsActive {
		return nil, apperr.ErrLinkNotFound
	}
	return link, nil
}

func (s *Service) Deactivate(ctx context.Context, merchantID, id string, checkout bool) error {
	err := s.repo.SetActive(ctx, kindOf(checkout), id, merchantID, false)
	if errors.Is(err, repositories.ErrLinkNotFound) {
		return apperr.ErrLinkNotFound
	}
	return err
}
