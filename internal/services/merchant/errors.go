package merchant

import apperr "droppay/internal/errors"

var (
	ErrMerchantNotFound = apperr.ErrMerchantNotFound
	ErrIdentityMismatch = apperr.ErrIdentityMismatch
	ErrInvalidAPIKey    = apperr.ErrInvalidAPIKey
)
