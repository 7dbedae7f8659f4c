package payment

import "github.com/shopspring/decimal"

type ApproveRequest struct {
	PaymentID      string `json:"paymentId"`
	PaymentLinkID  string `json:"paymentLinkId"`
	IsCheckoutLink bool   `json:"isCheckoutLink"`
	IsSubscription bool   `json:"isSubscription"`
}

type CompleteRequest struct {
	PaymentID      string           `json:"paymentId"`
	TxID           string           `json:"txid"`
	PaymentLinkID  string           `json:"paymentLinkId"`
	IsCheckoutLink bool             `json:"isCheckoutLink"`
	Amount         *decimal.Decimal `json:"amount"`
	PayerUsername  string           `json:"payerUsername"`
}

type VerifyRequest struct {
	TxID           string          `json:"txid"`
	ExpectedAmount *decimal.Decimal `json:"expectedAmount"`
	MerchantWallet string          `json:"merchantWallet"`
	PaymentLinkID  string          `json:"paymentLinkId"`
}

type Checks struct {
	AmountMatch   bool `json:"amountMatch"`
	ReceiverMatch bool `json:"receiverMatch"`
	Successful    bool `json:"successful"`
}

// Verified is true only when every check passed.
func (c Checks) Verified() bool {
	return c.AmountMatch && c.ReceiverMatch && c.Successful
}

// VerifyResult is returned with 200 whatever the outcome. Error and Details
// are set when the transaction could not be read from the chain.
type VerifyResult struct {
	Verified      bool        `json:"verified"`
	Checks        *Checks     `json:"checks,omitempty"`
	Sender        string      `json:"sender,omitempty"`
	Receiver      string      `json:"receiver,omitempty"`
	Amount        *float64    `json:"amount,omitempty"`
	TransactionID string      `json:"transactionId,omitempty"`
	Error         string      `json:"error,omitempty"`
	Details       interface{} `json:"details,omitempty"`
}
