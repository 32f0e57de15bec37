// Package brokerlink provides a client for the BrokerLink aggregator API
package brokerlink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/mattcarrick/driftline/internal/common"
	"github.com/mattcarrick/driftline/internal/interfaces"
	"github.com/mattcarrick/driftline/internal/models"
)

const (
	DefaultBaseURL   = "https://api.brokerlink.io"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the BrokerageClient interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new BrokerLink client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("BrokerLink API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path, userID string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if userID != "" {
		req.Header.Set("X-BrokerLink-User", userID)
	}

	c.logger.Debug().Str("url", path).Msg("BrokerLink API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

type accountsResponse struct {
	Accounts []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Broker string `json:"broker"`
	} `json:"accounts"`
}

// ListAccounts retrieves the user's connected brokerage accounts
func (c *Client) ListAccounts(ctx context.Context, userID string) ([]*interfaces.BrokerAccount, error) {
	var resp accountsResponse
	if err := c.get(ctx, "/v1/accounts", userID, &resp); err != nil {
		return nil, err
	}

	accounts := make([]*interfaces.BrokerAccount, len(resp.Accounts))
	for i, a := range resp.Accounts {
		accounts[i] = &interfaces.BrokerAccount{
			ID:     a.ID,
			Name:   a.Name,
			Broker: a.Broker,
		}
	}

	return accounts, nil
}

// GetHoldings retrieves a fresh holdings snapshot for one account. Raw
// symbol fields arrive in heterogeneous shapes; models.Symbol decodes them
// once here so nothing downstream re-sniffs.
func (c *Client) GetHoldings(ctx context.Context, userID, accountID string) (*models.HoldingsSnapshot, error) {
	var snapshot models.HoldingsSnapshot
	path := fmt.Sprintf("/v1/accounts/%s/holdings", accountID)
	if err := c.get(ctx, path, userID, &snapshot); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("account", accountID).
		Int("positions", len(snapshot.Positions)).
		Msg("Holdings snapshot fetched")

	return &snapshot, nil
}

// Compile-time check
var _ interfaces.BrokerageClient = (*Client)(nil)
