package errors

import "net/http"

var (
	ErrMerchantNotFound = &DomainError{
		Code:    "MERCHANT_NOT_FOUND",
		Message: "merchant not found",
		Status:  http.StatusNotFound,
	}
	ErrIdentityMismatch = &DomainError{
		Code:    "IDENTITY_MISMATCH",
		Message: "access token does not belong to this Pi user",
		Status:  http.StatusUnauthorized,
	}
	ErrInsufficientBalance = &DomainError{
		Code:    "INSUFFICIENT_BALANCE",
		Message: "insufficient available balance",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidAPIKey = &DomainError{
		Code:    "INVALID_API_KEY",
		Message: "invalid API key",
		Status:  http.StatusUnauthorized,
	}
)
