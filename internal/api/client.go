// Package api is a client for the order/account REST service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mgy583/account-book/internal/model"
	"github.com/mgy583/account-book/internal/source"
)

const (
	// DefaultBaseURL is where the order service listens in a local setup.
	DefaultBaseURL = "http://localhost:3000/api"

	defaultTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "account-book/1.0"
)

var (
	// ErrRequestFailed wraps every transport error and non-2xx response.
	// Callers do not distinguish statuses: a 401 is handled like a 500.
	ErrRequestFailed = errors.New("api: request failed")
	// ErrBadResponse indicates a 2xx response whose body has the wrong shape.
	ErrBadResponse = errors.New("api: malformed response")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string // server-provided reason, if any
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %s %s: status %d", e.Method, e.Path, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrRequestFailed
}

// ServerMessage returns the server's reason from a StatusError in err's
// chain, or "" when there is none.
func ServerMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// Client talks to the order service on behalf of one credential.
type Client struct {
	baseURL string
	cred    Credential
	http    *http.Client
	timeout time.Duration
	log     *slog.Logger
}

// NewClient creates a client bound to cred. An empty baseURL uses
// DefaultBaseURL.
func NewClient(baseURL string, cred Credential, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		cred:    cred,
		http:    &http.Client{},
		timeout: defaultTimeout,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithCredential returns a copy of the client bound to cred. Login and
// logout go through here instead of mutating a shared client.
func (c *Client) WithCredential(cred Credential) *Client {
	cp := *c
	cp.cred = cred
	return &cp
}

// Credential returns the credential the client sends.
func (c *Client) Credential() Credential {
	return c.cred
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchOrders queries the full order list and normalizes every record.
func (c *Client) FetchOrders(ctx context.Context) (FetchResult, error) {
	body, err := c.do(ctx, http.MethodGet, "/order_query/orders/query", nil)
	if err != nil {
		return FetchResult{}, err
	}

	var raw source.QueryResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return FetchResult{}, fmt.Errorf("%w: parsing orders: %v", ErrBadResponse, err)
	}
	if raw.Orders == nil {
		return FetchResult{}, fmt.Errorf("%w: no orders array", ErrBadResponse)
	}

	orders := source.NormalizeOrders(raw.Orders)
	total, ok := source.ParseTotal(raw.Total)
	if !ok || total == 0 {
		total = len(orders)
	}

	return FetchResult{
		Orders:      orders,
		ServerTotal: total,
		FetchedAt:   time.Now(),
	}, nil
}

// CreateOrder posts a new order and returns the server's copy of it.
func (c *Client) CreateOrder(ctx context.Context, in NewOrder) (model.Order, error) {
	body, err := c.do(ctx, http.MethodPost, "/order", in)
	if err != nil {
		return model.Order{}, err
	}

	var raw source.RawRecord
	if err := json.Unmarshal(body, &raw); err != nil {
		// Some servers answer with an empty body; the next fetch shows the order.
		return model.Order{}, nil
	}
	return source.NormalizeOrder(raw), nil
}

// DeleteOrder deletes the order with the given id.
func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty order id", ErrRequestFailed)
	}
	_, err := c.do(ctx, http.MethodDelete, "/order/"+url.PathEscape(id), nil)
	return err
}

// ListAccounts returns the user's accounts.
func (c *Client) ListAccounts(ctx context.Context) ([]model.Account, error) {
	body, err := c.do(ctx, http.MethodGet, "/accounts", nil)
	if err != nil {
		return nil, err
	}

	var raws []source.RawRecord
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("%w: parsing accounts: %v", ErrBadResponse, err)
	}

	accounts := make([]model.Account, 0, len(raws))
	for _, r := range raws {
		accounts = append(accounts, source.NormalizeAccount(r))
	}
	return accounts, nil
}

// CreateAccount posts a new account.
func (c *Client) CreateAccount(ctx context.Context, in NewAccount) (model.Account, error) {
	body, err := c.do(ctx, http.MethodPost, "/accounts", in)
	if err != nil {
		return model.Account{}, err
	}

	var raw source.RawRecord
	if err := json.Unmarshal(body, &raw); err != nil {
		return model.Account{}, nil
	}
	return source.NormalizeAccount(raw), nil
}

// Login exchanges a username and password for a credential.
func (c *Client) Login(ctx context.Context, username, password string) (Credential, error) {
	return c.authenticate(ctx, "/login", username, password)
}

// Register creates a user and returns its credential.
func (c *Client) Register(ctx context.Context, username, password string) (Credential, error) {
	return c.authenticate(ctx, "/register", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) (Credential, error) {
	body, err := c.do(ctx, http.MethodPost, path, authRequest{Username: username, Password: password})
	if err != nil {
		return Credential{}, err
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return Credential{}, fmt.Errorf("%w: parsing token: %v", ErrBadResponse, err)
	}
	if tr.Token == "" {
		return Credential{}, fmt.Errorf("%w: empty token", ErrBadResponse)
	}
	return Credential{Token: tr.Token, Username: username}, nil
}

// do performs one request and returns the response body of a 2xx reply.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("api: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("api: creating request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !c.cred.IsZero() {
		req.Header.Set("Authorization", "Bearer "+c.cred.Token)
	}

	start := time.Now()
	//nolint:gosec // URL is built from the configured base URL
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrRequestFailed, err)
	}

	c.log.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
	}
	return body, nil
}

func errorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Message != "" {
		return eb.Message
	}
	return eb.Token
}
