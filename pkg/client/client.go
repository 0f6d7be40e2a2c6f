// Package client is a typed HTTP client for the Meridian voucher API.
// Responses arrive wrapped in the {Success, Data, Message} envelope;
// the client unwraps them and surfaces failures as *APIError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// APIError carries the HTTP status and envelope message of a failed call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("meridian api: %d %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success bool            `json:"Success"`
	Data    json.RawMessage `json:"Data"`
	Message string          `json:"Message"`
}

// Client talks to a Meridian server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets a pre-issued bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New constructs a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the bearer token currently in use.
func (c *Client) Token() string {
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	if !env.Success {
		return &APIError{StatusCode: res.StatusCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("client: decode payload: %w", err)
		}
	}
	return nil
}

// LoginResult is the payload of a successful login.
type LoginResult struct {
	Token       string `json:"token"`
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// Login authenticates and stores the issued token for subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

// Logout revokes the current token.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// SaveLine is one ledger line of a save request. TypeCode is 1 for
// debit and -1 for credit.
type SaveLine struct {
	AccountCode string  `json:"account_code"`
	Narration   string  `json:"narration"`
	TypeCode    int     `json:"type_code"`
	Amount      float64 `json:"amount"`
	IsManual    bool    `json:"is_manual"`
}

// SaveVoucherRequest is the body for creating or updating a voucher.
// Dates use the YYYY-MM-DD layout. Status may be DRAFT or POSTED and
// defaults to POSTED on the server.
type SaveVoucherRequest struct {
	Status          string     `json:"status,omitempty"`
	Date            string     `json:"date"`
	ReferenceNumber string     `json:"reference_number,omitempty"`
	ReferenceDate   string     `json:"reference_date,omitempty"`
	Remarks         string     `json:"remarks,omitempty"`
	Lines           []SaveLine `json:"lines"`
}

// SaveResult identifies the saved voucher.
type SaveResult struct {
	ID     int64  `json:"id"`
	Number string `json:"number"`
}

// CreateVoucher posts a new balanced voucher.
func (c *Client) CreateVoucher(ctx context.Context, req SaveVoucherRequest) (*SaveResult, error) {
	var result SaveResult
	if err := c.do(ctx, http.MethodPost, "/api/vouchers/", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateVoucher replaces an existing voucher's header and lines.
func (c *Client) UpdateVoucher(ctx context.Context, id int64, req SaveVoucherRequest) (*SaveResult, error) {
	var result SaveResult
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/vouchers/%d", id), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LedgerLine mirrors a stored voucher line.
type LedgerLine struct {
	Sequence    int     `json:"sequence"`
	AccountCode string  `json:"account_code"`
	Narration   string  `json:"narration"`
	EntryType   string  `json:"entry_type"`
	Amount      float64 `json:"amount"`
	IsManual    bool    `json:"is_manual"`
}

// Voucher mirrors a stored voucher with its lines.
type Voucher struct {
	ID              int64        `json:"id"`
	Number          string       `json:"number"`
	Date            time.Time    `json:"date"`
	ReferenceNumber string       `json:"reference_number"`
	ReferenceDate   *time.Time   `json:"reference_date,omitempty"`
	Remarks         string       `json:"remarks"`
	Status          string       `json:"status"`
	CreatedBy       int64        `json:"created_by"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
	Lines           []LedgerLine `json:"lines"`
}

// GetVoucher fetches a voucher by id.
func (c *Client) GetVoucher(ctx context.Context, id int64) (*Voucher, error) {
	var voucher Voucher
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/vouchers/%d", id), nil, &voucher); err != nil {
		return nil, err
	}
	return &voucher, nil
}

// NextNumber returns the voucher number the next insert would take.
func (c *Client) NextNumber(ctx context.Context) (string, error) {
	var payload struct {
		Number string `json:"number"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/vouchers/next-number", nil, &payload); err != nil {
		return "", err
	}
	return payload.Number, nil
}

// EditImpact describes one downstream effect of re-editing a voucher.
type EditImpact struct {
	MessageType string `json:"message_type"`
	Message     string `json:"message"`
}

// EditCheckResult reports whether an edit needs user confirmation.
type EditCheckResult struct {
	Impacts              []EditImpact `json:"impacts"`
	ConfirmationRequired bool         `json:"confirmation_required"`
}

// EditCheck asks the server which downstream documents an edit of the
// voucher would touch.
func (c *Client) EditCheck(ctx context.Context, id int64, messageTypes []string) (*EditCheckResult, error) {
	var result EditCheckResult
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/vouchers/%d/edit-check", id), map[string]any{
		"message_types": messageTypes,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
