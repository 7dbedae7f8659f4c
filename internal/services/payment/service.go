package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"droppay/internal/config"
	apperr "droppay/internal/errors"
	"droppay/internal/metrics"
	"droppay/internal/models"
	"droppay/internal/repositories"
)

type service struct {
	links         repositories.LinkRepository
	transactions  repositories.TransactionRepository
	client        PiClient
	secrets       config.SecretSource
	walletService WalletService
	notifier      Notifier
	metrics       metrics.Recorder
}

// NewService creates a new payment service
func NewService(
	links repositories.LinkRepository,
	transactions repositories.TransactionRepository,
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
		links:         links,
		transactions:  transactions,
		client:        client,
		secrets:       secrets,
		walletService: walletSvc,
		notifier:      notifier,
		metrics:       recorder,
	}
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", apperr.ErrMissingField, field)
}

func (s *service) resolveLink(ctx context.Context, id string, checkout bool) (*models.Link, error) {
	kind := models.LinkKindPayment
	if checkout {
		kind = models.LinkKindCheckout
	}
	link, err := s.links.Get(ctx, kind, id)
	if err != nil {
		if errors.Is(err, repositories.ErrLinkNotFound) {
			return nil, apperr.ErrLinkNotFound
		}
		return nil, err
	}
	return link, nil
}

// Approve relays a payment approval. An inactive link stops the request
// before the Pi API is called.
func (s *service) Approve(ctx context.Context, req ApproveRequest) (json.RawMessage, error) {
	secrets, err := config.Require(s.secrets, config.PiAPIKey)
	if err != nil {
		return nil, err
	}
	if req.PaymentID == "" {
		return nil, missing("paymentId")
	}

	if req.PaymentLinkID != "" {
		link, err := s.resolveLink(ctx, req.PaymentLinkID, req.IsCheckoutLink)
		if err != nil {
			return nil, err
		}
		if !link.IsActive {
			s.metrics.RecordPayment("approve", "link_inactive")
			return nil, apperr.ErrLinkInactive
		}
	}

	raw, err := s.client.Approve(ctx, secrets[config.PiAPIKey], req.PaymentID)
	if err != nil {
		log.Printf("Error approving payment %s: %v", req.PaymentID, err)
		s.metrics.RecordPayment("approve", "upstream_error")
		return nil, err
	}

	log.Printf("Payment %s approved", req.PaymentID)
	s.metrics.RecordPayment("approve", "ok")
	return raw, nil
}

// Complete relays the txid of a signed payment. When the payment came from
// a link a pending transaction is recorded for the link's merchant; a failed
// insert is logged and does not fail the request.
func (s *service) Complete(ctx context.Context, req CompleteRequest) (json.RawMessage, error) {
	secrets, err := config.Require(s.secrets, config.PiAPIKey)
	if err != nil {
		return nil, err
	}
	if req.PaymentID == "" {
		return nil, missing("paymentId")
	}
	if req.TxID == "" {
		return nil, missing("txid")
	}

	var link *models.Link
	if req.PaymentLinkID != "" {
		if link, err = s.resolveLink(ctx, req.PaymentLinkID, req.IsCheckoutLink); err != nil {
			return nil, err
		}
	}

	raw, err := s.client.Complete(ctx, secrets[config.PiAPIKey], req.PaymentID, req.TxID)
	if err != nil {
		log.Printf("Error completing payment %s: %v", req.PaymentID, err)
		s.metrics.RecordPayment("complete", "upstream_error")
		return nil, err
	}
	s.metrics.RecordPayment("complete", "ok")

	if link != nil {
		if err := s.recordCompletion(ctx, link, req); err != nil {
			log.Printf("Error recording transaction for payment %s: %v", req.PaymentID, err)
			s.metrics.RecordError("complete", "store")
		}
	}
	return raw, nil
}

// recordCompletion stores the link's price as the amount owed. An amount
// reported by the client is kept in metadata only.
func (s *service) recordCompletion(ctx context.Context, link *models.Link, req CompleteRequest) error {
	meta := map[string]interface{}{
		models.MetadataSourceLinkID: link.ID,
		"link_type":                 link.Kind,
	}
	if req.Amount != nil {
		meta[models.MetadataReportedAmount] = req.Amount.String()
	}

	merchantID := link.MerchantID
	tx := &models.Transaction{
		MerchantID:    &merchantID,
		PiPaymentID:   req.PaymentID,
		TxID:          req.TxID,
		Amount:        link.Amount,
		Status:        models.TransactionStatusPending,
		PayerUsername: req.PayerUsername,
		Metadata:      models.NewJSON(meta),
	}
	// Checkout links have no column of their own; metadata carries them.
	if link.Kind == models.LinkKindPayment {
		linkID := link.ID
		tx.PaymentLinkID = &linkID
	}
	return s.transactions.Create(ctx, tx)
}

func (s *service) ListTransactions(ctx context.Context, merchantID string, limit, offset int) ([]models.Transaction, int64, error) {
	return s.transactions.ListByMerchant(ctx, merchantID, limit, offset)
}
