package wallet

import (
	"net/http"

	apperr "droppay/internal/errors"
)

var (
	ErrInvalidAmount       = apperr.ErrInvalidAmount
	ErrInsufficientBalance = apperr.ErrInsufficientBalance
	ErrNoWalletAddress     = &apperr.DomainError{
		Code:    "NO_WALLET_ADDRESS",
		Message: "merchant has no wallet address",
		Status:  http.StatusBadRequest,
	}
)
