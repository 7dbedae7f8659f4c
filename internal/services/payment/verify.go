package payment

import (
	"context"
	"fmt"
	"log"
	"strings"

	"droppay/internal/config"
	apperr "droppay/internal/errors"
	"droppay/internal/models"
	"droppay/internal/pinetwork"
	"droppay/internal/repositories"

	"github.com/shopspring/decimal"
)

// AmountTolerance absorbs rounding in the chain's 7-decimal amounts.
var AmountTolerance = decimal.New(1, -7)

// recentRows bounds how many rows sharing a txid are considered.
const recentRows = 5

// Evaluate compares an on-chain payment against what the caller expected.
// An empty wallet skips the receiver check.
func Evaluate(found pinetwork.TxFound, expected decimal.Decimal, wallet string) Checks {
	receiverMatch := true
	if wallet != "" {
		receiverMatch = strings.EqualFold(found.Receiver, wallet)
	}
	return Checks{
		AmountMatch:   found.Amount.Sub(expected).Abs().LessThanOrEqual(AmountTolerance),
		ReceiverMatch: receiverMatch,
		Successful:    found.Successful,
	}
}

// selectRow picks the row a verification applies to: the row on the given
// payment link, then the row whose metadata names it, else the newest.
func selectRow(rows []models.Transaction, linkID string) *models.Transaction {
	if len(rows) == 0 {
		return nil
	}
	if linkID != "" {
		for i := range rows {
			if rows[i].PaymentLinkID != nil && *rows[i].PaymentLinkID == linkID {
				return &rows[i]
			}
		}
		for i := range rows {
			if rows[i].Metadata.String(models.MetadataSourceLinkID) == linkID {
				return &rows[i]
			}
		}
	}
	return &rows[0]
}

func (s *service) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	if req.TxID == "" {
		return nil, missing("txid")
	}
	if req.ExpectedAmount == nil {
		return nil, missing("expectedAmount")
	}
	if !req.ExpectedAmount.IsPositive() {
		return nil, fmt.Errorf("%w: expectedAmount must be positive", apperr.ErrInvalidAmount)
	}

	var found pinetwork.TxFound
	switch res := s.client.LookupTransaction(ctx, req.TxID).(type) {
	case pinetwork.TxFound:
		found = res
	case pinetwork.TxNotFound:
		s.metrics.RecordVerification("not_found")
		return &VerifyResult{
			Error:   "Transaction not found on blockchain",
			Details: res.TxID,
		}, nil
	case pinetwork.TxUpstreamError:
		log.Printf("Error fetching transaction %s: status %d", req.TxID, res.Status)
		s.metrics.RecordVerification("upstream_error")
		return &VerifyResult{
			Error:   "Failed to fetch transaction from blockchain",
			Details: res.Body,
		}, nil
	}

	checks := Evaluate(found, *req.ExpectedAmount, req.MerchantWallet)
	amount := found.Amount.InexactFloat64()
	result := &VerifyResult{
		Verified: checks.Verified(),
		Checks:   &checks,
		Sender:   found.Sender,
		Receiver: found.Receiver,
		Amount:   &amount,
	}
	if result.Verified {
		s.metrics.RecordVerification("verified")
	} else {
		s.metrics.RecordVerification("failed")
	}

	row, err := s.applyToRow(ctx, req, found, result.Verified)
	if err != nil {
		log.Printf("Error updating transaction for txid %s: %v", req.TxID, err)
		s.metrics.RecordError("verify", "store")
	}
	if row != nil {
		result.TransactionID = row.ID
	}
	return result, nil
}

// applyToRow writes the verdict to the matching local row. The row is only
// marked verified when the on-chain payment settles it, whatever the caller
// expected. A row that moves to completed credits its merchant once; credit
// and notification failures are logged only.
func (s *service) applyToRow(ctx context.Context, req VerifyRequest, found pinetwork.TxFound, verified bool) (*models.Transaction, error) {
	rows, err := s.transactions.RecentByTxID(ctx, req.TxID, recentRows)
	if err != nil {
		return nil, err
	}
	row := selectRow(rows, req.PaymentLinkID)
	if row == nil {
		return nil, nil
	}

	settled := verified && s.settles(ctx, row, found)
	if verified && !settled {
		log.Printf("Transaction %s: txid %s does not settle it (amount %s, receiver %s)",
			row.ID, req.TxID, found.Amount, found.Receiver)
		s.metrics.RecordVerification("unsettled")
	}

	completed, err := s.transactions.ApplyVerification(ctx, row.ID, repositories.VerificationUpdate{
		Verified:        settled,
		SenderAddress:   found.Sender,
		ReceiverAddress: found.Receiver,
	})
	if err != nil {
		return row, err
	}
	if !completed || row.MerchantID == nil {
		return row, nil
	}

	merchantID := *row.MerchantID
	if s.walletService != nil {
		if err := s.walletService.Credit(ctx, merchantID, row.Amount); err != nil {
			log.Printf("Error crediting merchant %s for transaction %s: %v", merchantID, row.ID, err)
			s.metrics.RecordError("verify", "credit")
		}
	}
	if s.notifier != nil {
		if err := s.notifier.SendPayment(ctx, merchantID, row); err != nil {
			log.Printf("Error notifying merchant %s: %v", merchantID, err)
		}
	}
	return row, nil
}

// settles reports whether found pays for row: a successful payment of the
// row's own amount to the merchant's wallet or the app wallet.
func (s *service) settles(ctx context.Context, row *models.Transaction, found pinetwork.TxFound) bool {
	if !found.Successful || found.Receiver == "" {
		return false
	}
	if found.Amount.Sub(row.Amount).Abs().GreaterThan(AmountTolerance) {
		return false
	}
	for _, wallet := range s.receivingWallets(ctx, row) {
		if strings.EqualFold(found.Receiver, wallet) {
			return true
		}
	}
	return false
}

func (s *service) receivingWallets(ctx context.Context, row *models.Transaction) []string {
	var wallets []string
	if s.secrets != nil {
		if app, ok := s.secrets.Lookup(config.AppWalletAddress); ok {
			wallets = append(wallets, app)
		}
	}
	if row.MerchantID != nil && s.walletService != nil {
		addr, err := s.walletService.WalletAddress(ctx, *row.MerchantID)
		if err != nil {
			log.Printf("Error loading wallet for merchant %s: %v", *row.MerchantID, err)
		} else if addr != "" {
			wallets = append(wallets, addr)
		}
	}
	return wallets
}
