package merchant

import "droppay/internal/models"

// Input types for merchant operations
type CreateProfileInput struct {
	PiUserID      string `json:"piUserId"`
	PiUsername    string `json:"piUsername"`
	WalletAddress string `json:"walletAddress"`
	AccessToken   string `json:"accessToken"`
}

type UpdateProfileInput struct {
	BusinessName  *string `json:"business_name"`
	WalletAddress *string `json:"wallet_address"`
}

// ProfileResult is a merchant row plus a fresh session for it.
type ProfileResult struct {
	Merchant     *models.Merchant
	Created      bool
	SessionToken string
}

// IssuedKey carries the plaintext key. It is only ever shown once.
type IssuedKey struct {
	Key       string         `json:"api_key"`
	Prefix    string         `json:"prefix"`
	Record    *models.APIKey `json:"-"`
	CreatedAt string         `json:"created_at"`
}
