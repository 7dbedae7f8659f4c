package payment

import (
	"context"
	"encoding/json"

	"droppay/internal/models"
	"droppay/internal/pinetwork"

	"github.com/shopspring/decimal"
)

// Service defines the payment service interface
type Service interface {
	// Approve relays a Pi payment approval, refusing inactive links.
	Approve(ctx context.Context, req ApproveRequest) (json.RawMessage, error)
	// Complete relays the blockchain txid and records a pending transaction.
	Complete(ctx context.Context, req CompleteRequest) (json.RawMessage, error)
	// Verify checks a txid against Horizon and updates the matching row.
	Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error)
	ListTransactions(ctx context.Context, merchantID string, limit, offset int) ([]models.Transaction, int64, error)
}

// Dependencies required by the payment service
type PiClient interface {
	Approve(ctx context.Context, apiKey, paymentID string) (json.RawMessage, error)
	Complete(ctx context.Context, apiKey, paymentID, txid string) (json.RawMessage, error)
	LookupTransaction(ctx context.Context, txid string) pinetwork.TxResult
}

type WalletService interface {
	Credit(ctx context.Context, merchantID string, amount decimal.Decimal) error
	WalletAddress(ctx context.Context, merchantID string) (string, error)
}

type Notifier interface {
	SendPayment(ctx context.Context, merchantID string, tx *models.Transaction) error
}
