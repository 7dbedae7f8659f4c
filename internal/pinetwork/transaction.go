package pinetwork

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// TxResult is the outcome of a blockchain transaction lookup. It is one of
// TxFound, TxNotFound or TxUpstreamError.
type TxResult interface {
	txResult()
}

// TxFound carries the fields of the first payment operation of the
// transaction. Sender and Receiver are empty when it has no payment.
type TxFound struct {
	TxID       string
	Sender     string
	Receiver   string
	Amount     decimal.Decimal
	Successful bool
}

type TxNotFound struct {
	TxID string
}

type TxUpstreamError struct {
	Status int
	Body   string
}

func (TxFound) txResult()         {}
func (TxNotFound) txResult()      {}
func (TxUpstreamError) txResult() {}

type horizonTransaction struct {
	ID         string `json:"id"`
	Hash       string `json:"hash"`
	Successful bool   `json:"successful"`
}

type horizonOperation struct {
	Type   string `json:"type"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type horizonOperations struct {
	Embedded struct {
		Records []horizonOperation `json:"records"`
	} `json:"_embedded"`
}

// LookupTransaction fetches a transaction and its operations from Horizon.
func (c *Client) LookupTransaction(ctx context.Context, txid string) TxResult {
	var tx horizonTransaction
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&tx).
		Get(fmt.Sprintf("%s/transactions/%s", c.horizonBase, txid))
	if err != nil {
		return TxUpstreamError{Body: err.Error()}
	}
	if res.StatusCode() == http.StatusNotFound {
		return TxNotFound{TxID: txid}
	}
	if res.StatusCode() != http.StatusOK {
		return TxUpstreamError{Status: res.StatusCode(), Body: res.String()}
	}

	var ops horizonOperations
	res, err = c.http.R().
		SetContext(ctx).
		SetResult(&ops).
		Get(fmt.Sprintf("%s/transactions/%s/operations", c.horizonBase, txid))
	if err != nil {
		return TxUpstreamError{Body: err.Error()}
	}
	if res.StatusCode() != http.StatusOK {
		return TxUpstreamError{Status: res.StatusCode(), Body: res.String()}
	}

	found := TxFound{TxID: txid, Successful: tx.Successful}
	for _, op := range ops.Embedded.Records {
		if op.Type != "payment" {
			continue
		}
		amount, err := decimal.NewFromString(op.Amount)
		if err != nil {
			return TxUpstreamError{Status: res.StatusCode(), Body: fmt.Sprintf("invalid payment amount %q", op.Amount)}
		}
		found.Sender = op.From
		found.Receiver = op.To
		found.Amount = amount
		break
	}
	return found
}
