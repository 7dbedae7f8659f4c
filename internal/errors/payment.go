package errors

import "net/http"

var (
	ErrMissingField = &DomainError{
		Code:    "MISSING_FIELD",
		Message: "missing required field",
		Status:  http.StatusBadRequest,
	}
	ErrLinkNotFound = &DomainError{
		Code:    "LINK_NOT_FOUND",
		Message: "payment link not found",
		Status:  http.StatusNotFound,
	}
	ErrLinkInactive = &DomainError{
		Code:    "LINK_INACTIVE",
		Message: "payment link is not active",
		Status:  http.StatusBadRequest,
	}
	ErrUpstream = &DomainError{
		Code:    "UPSTREAM_ERROR",
		Message: "payment network request failed",
		Status:  http.StatusBadGateway,
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "invalid amount",
		Status:  http.StatusBadRequest,
	}
)
