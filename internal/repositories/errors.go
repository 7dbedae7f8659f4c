package repositories

import "errors"

var (
	ErrMerchantNotFound    = errors.New("merchant not found")
	ErrLinkNotFound        = errors.New("link not found")
	ErrRewardNotFound      = errors.New("ad reward not found")
	ErrNotificationMissing = errors.New("notification not found")
	ErrAPIKeyNotFound      = errors.New("api key not found")
	ErrInsufficientBalance = errors.New("insufficient available balance")
)
