package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Config represents the configuration for the entitlements client
type Config struct {
	// BaseURL is the base URL of the deploycenter API
	BaseURL string
	// Token is the bearer token presented on every request
	Token string
	// HTTPClient is an optional custom HTTP client
	HTTPClient *http.Client
	// Timeout is the default request timeout
	Timeout time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "http://localhost:8080",
		HTTPClient: http.DefaultClient,
		Timeout:    10 * time.Second,
	}
}

// Client is the deploycenter entitlements client
type Client struct {
	config *Config
	client *http.Client
}

// NewClient creates a new entitlements client with the given configuration
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		config: config,
		client: client,
	}
}

// CheckAdminRequest identifies an account on a service subscription. One of
// AccountID (external identifier) or AccountEmail is required.
type CheckAdminRequest struct {
	OrganizationID string
	ServiceID      int64
	AccountType    string
	AccountID      string
	AccountEmail   string
}

// CheckAdminResponse is the admin decision with the rule level that matched
type CheckAdminResponse struct {
	IsAdmin bool   `json:"is_admin"`
	Level   string `json:"level"`
}

// CheckAdmin asks whether the account administers the service for the
// organization
func (c *Client) CheckAdmin(ctx context.Context, req *CheckAdminRequest) (*CheckAdminResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if req.OrganizationID == "" || req.ServiceID == 0 {
		return nil, errors.New("organization_id and service_id are required")
	}
	if req.AccountID == "" && req.AccountEmail == "" {
		return nil, errors.New("account_id or account_email is required")
	}

	query := url.Values{}
	query.Set("organization_id", req.OrganizationID)
	query.Set("service_id", strconv.FormatInt(req.ServiceID, 10))
	if req.AccountType != "" {
		query.Set("account_type", req.AccountType)
	}
	if req.AccountID != "" {
		query.Set("account_id", req.AccountID)
	}
	if req.AccountEmail != "" {
		query.Set("account_email", req.AccountEmail)
	}

	endpoint := fmt.Sprintf("%s/api/entitlements/admin?%s", c.config.BaseURL, query.Encode())

	var out CheckAdminResponse
	if err := c.doRequest(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, out interface{}) error {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Error != "" {
			return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, errBody.Error)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
