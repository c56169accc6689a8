package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"delivery-client/internal/core/logger"

	"go.uber.org/zap"
)

// Action selects the operation on the single remote endpoint.
type Action string

const (
	ActionListProducts       Action = "list_products"
	ActionListCategories     Action = "list_categories"
	ActionListCoupons        Action = "list_coupons"
	ActionValidateCoupon     Action = "validate_coupon"
	ActionCreateOrder        Action = "create_order"
	ActionListOrders         Action = "list_orders"
	ActionListLastAddresses  Action = "list_last_addresses"
	ActionCheckPaymentStatus Action = "check_payment_status"
	ActionLogin              Action = "login"
	ActionRegister           Action = "register"
)

// ErrMalformedResponse is returned when a 2xx body cannot be decoded.
var ErrMalformedResponse = errors.New("malformed backend response")

// TokenSource yields the bearer token for the current session, or "".
type TokenSource interface {
	Token(ctx context.Context) string
}

// Client talks to the remote ordering API. Every action goes to
// {baseURL}/index.php?action=<action>.
type Client struct {
	endpoint string
	http     *http.Client

	mu             sync.RWMutex
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
}

// NewClient creates a backend client. baseURL is the API directory.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		endpoint: strings.TrimRight(baseURL, "/") + "/index.php",
		http:     httpClient,
	}
}

// SetTokenSource registers where bearer tokens come from.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	c.tokens = ts
	c.mu.Unlock()
}

// OnUnauthorized registers the hook run on 401/403 responses.
func (c *Client) OnUnauthorized(fn func(ctx context.Context)) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// Get performs a GET for action with extra query parameters.
func (c *Client) Get(ctx context.Context, action Action, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, action, query, nil, out)
}

// Post performs a POST for action with a JSON body.
func (c *Client) Post(ctx context.Context, action Action, body any, out any) error {
	return c.do(ctx, http.MethodPost, action, nil, body, out)
}

// Ping checks that the endpoint answers at all. Any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("backend: failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) do(ctx context.Context, method string, action Action, query url.Values, body any, out any) error {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("action", string(action))

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend %s: failed to encode body: %w", action, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+"?"+q.Encode(), reader)
	if err != nil {
		return fmt.Errorf("backend %s: failed to create request: %w", action, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	tokens, hook := c.tokens, c.onUnauthorized
	c.mu.RUnlock()

	if tokens != nil {
		if token := tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend %s: failed to execute request: %w", action, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend %s: failed to read response: %w", action, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{Action: action, StatusCode: resp.StatusCode, Body: raw}
		logger.Named("backend").Warn("Backend returned error status",
			zap.String("action", string(action)),
			zap.Int("status_code", resp.StatusCode),
		)
		if httpErr.Unauthorized() && hook != nil {
			hook(ctx)
		}
		return httpErr
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("backend %s: %w: %v", action, ErrMalformedResponse, err)
	}
	return nil
}
