package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	apperr "droppay/internal/errors"
	"droppay/internal/models"
	"droppay/internal/repositories"

	"github.com/shopspring/decimal"
)

var ErrNotFound = &apperr.DomainError{
	Code:    "NOTIFICATION_NOT_FOUND",
	Message: "notification not found",
	Status:  http.StatusNotFound,
}

// Service writes merchant notifications. Sends are best effort: callers log
// the error and carry on.
type Service struct {
	repo repositories.NotificationRepository
}

// NewService creates a new notification service.
func NewService(repo repositories.NotificationRepository) *Service {
	return &Service{repo: repo}
}

// Send inserts one notification for merchantID.
func (s *Service) Send(ctx context.Context, merchantID, kind, title, message string) error {
	n := &models.Notification{
		MerchantID: merchantID,
		Type:       kind,
		Title:      title,
		Message:    message,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	log.Printf("Notify merchant %s: %s", merchantID, title)
	return nil
}

// SendReward announces a granted ad reward.
func (s *Service) SendReward(ctx context.Context, merchantID string, amount decimal.Decimal) error {
	return s.Send(ctx, merchantID, models.NotificationTypeReward,
		"Ad reward received",
		fmt.Sprintf("You earned %s Pi from a rewarded ad.", amount.String()))
}

// SendPayment announces a payment that passed blockchain verification.
func (s *Service) SendWithdrawal(ctx context.Context, merchantID string, w *models.Withdrawal) error {
	return s.Send(ctx, merchantID, models.NotificationTypeWithdrawal,
		"Withdrawal requested",
		fmt.Sprintf("%s Pi is on its way to %s.", w.Amount.String(), w.WalletAddress))
}

func (s *Service) SendPayment(ctx context.Context, merchantID string, tx *models.Transaction) error {
	from := tx.PayerUsername
	if from == "" {
		from = "a customer"
	}
	return s.Send(ctx, merchantID, models.NotificationTypePayment,
		"Payment received",
		fmt.Sprintf("%s Pi from %s was confirmed on chain.", tx.Amount.String(), from))
}

func (s *Service) List(ctx context.Context, merchantID string, limit, offset int) ([]models.Notification, int64, error) {
	return s.repo.ListByMerchant(ctx, merchantID, limit, offset)
}

func (s *Service) MarkRead(ctx context.Context, id, merchantID string) error {
	if err := s.repo.MarkRead(ctx, id, merchantID); err != nil {
		if errors.Is(err, repositories.ErrNotificationMissing) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
