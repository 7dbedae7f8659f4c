// Package pinetwork is a small client for the Pi Network platform API and
// the Pi blockchain Horizon API. Every call is a single attempt; callers
// decide what to do with a failure.
package pinetwork

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperr "droppay/internal/errors"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultAPIBase     = "https://api.minepi.com/v2"
	DefaultHorizonBase = "https://api.testnet.minepi.com"
	DefaultTimeout     = 15 * time.Second
)

type Config struct {
	APIBase     string
	HorizonBase string
	Timeout     time.Duration
}

type Client struct {
	http        *resty.Client
	apiBase     string
	horizonBase string
}

func New(cfg Config) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.HorizonBase == "" {
		cfg.HorizonBase = DefaultHorizonBase
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "droppay")

	return &Client{
		http:        httpClient,
		apiBase:     strings.TrimRight(cfg.APIBase, "/"),
		horizonBase: strings.TrimRight(cfg.HorizonBase, "/"),
	}
}

// UpstreamError is a non-2xx answer (or a transport failure, Status 0)
// from the Pi API. Body is the raw response text.
type UpstreamError struct {
	Op     string
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("pi network %s failed: %s", e.Op, e.Body)
	}
	return fmt.Sprintf("pi network %s failed with status %d", e.Op, e.Status)
}

func (e *UpstreamError) Unwrap() error {
	return apperr.ErrUpstream
}

func keyAuth(apiKey string) string {
	return "Key " + apiKey
}

func (c *Client) post(ctx context.Context, op, apiKey, url string, body interface{}) (json.RawMessage, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", keyAuth(apiKey))
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	res, err := req.Post(url)
	if err != nil {
		return nil, &UpstreamError{Op: op, Body: err.Error()}
	}
	if res.IsError() || res.StatusCode() >= http.StatusMultipleChoices {
		return nil, &UpstreamError{Op: op, Status: res.StatusCode(), Body: res.String()}
	}
	return json.RawMessage(res.Body()), nil
}

// Approve tells the Pi server the app accepts a pending payment. The raw
// response body is returned untouched.
func (c *Client) Approve(ctx context.Context, apiKey, paymentID string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/payments/%s/approve", c.apiBase, paymentID)
	return c.post(ctx, "approve", apiKey, url, nil)
}

// Complete reports the blockchain txid of a signed payment back to the Pi
// server.
func (c *Client) Complete(ctx context.Context, apiKey, paymentID, txid string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/payments/%s/complete", c.apiBase, paymentID)
	return c.post(ctx, "complete", apiKey, url, map[string]string{"txid": txid})
}

// AdStatus is the ad network's view of one rewarded-ad impression.
type AdStatus struct {
	Identifier        string `json:"identifier"`
	MediatorAckStatus string `json:"mediator_ack_status"`
	MediatorGrantedAt string `json:"mediator_granted_at,omitempty"`
	MediatorRevokedAt string `json:"mediator_revoked_at,omitempty"`
}

// Granted reports whether the mediator acknowledged the impression.
func (s *AdStatus) Granted() bool {
	return s != nil && s.MediatorAckStatus == "granted"
}

func (c *Client) AdStatus(ctx context.Context, apiKey, adID string) (*AdStatus, error) {
	var status AdStatus
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", keyAuth(apiKey)).
		SetResult(&status).
		Get(fmt.Sprintf("%s/ads_network/status/%s", c.apiBase, adID))
	if err != nil {
		return nil, &UpstreamError{Op: "ad status", Body: err.Error()}
	}
	if res.StatusCode() != http.StatusOK {
		return nil, &UpstreamError{Op: "ad status", Status: res.StatusCode(), Body: res.String()}
	}
	return &status, nil
}

// User is the identity behind a Pi access token.
type User struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
}

// Me resolves a user access token issued by the Pi browser SDK.
func (c *Client) Me(ctx context.Context, accessToken string) (*User, error) {
	var user User
	res, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&user).
		Get(c.apiBase + "/me")
	if err != nil {
		return nil, &UpstreamError{Op: "me", Body: err.Error()}
	}
	if res.StatusCode() != http.StatusOK {
		return nil, &UpstreamError{Op: "me", Status: res.StatusCode(), Body: res.String()}
	}
	return &user, nil
}
