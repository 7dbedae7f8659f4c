package wallet

import (
	"context"

	"droppay/internal/models"

	"github.com/shopspring/decimal"
)

// Service defines the wallet service interface
type Service interface {
	// Credit adds amount to the merchant's available balance and total revenue.
	Credit(ctx context.Context, merchantID string, amount decimal.Decimal) error
	// Withdraw reserves amount for a payout and records a pending withdrawal.
	Withdraw(ctx context.Context, merchantID string, amount decimal.Decimal) (*models.Withdrawal, error)
	ListWithdrawals(ctx context.Context, merchantID string, limit, offset int) ([]models.Withdrawal, int64, error)
	// WalletAddress returns the merchant's payout wallet, empty when unset.
	WalletAddress(ctx context.Context, merchantID string) (string, error)
}

// Notifier tells a merchant about a reserved withdrawal. Optional.
type Notifier interface {
	SendWithdrawal(ctx context.Context, merchantID string, w *models.Withdrawal) error
}
