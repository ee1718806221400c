// Package jamf is a minimal client for the Jamf Pro computers-inventory API:
// token exchange, inventory endpoint discovery, and a lazy pagination walk.
package jamf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mtamaki/office-peak/pkg/model"
)

var (
	// ErrNoCredentials signals that neither a client id/secret pair nor a
	// username/password pair is configured.
	ErrNoCredentials = errors.New("jamf credentials missing")
	// ErrNoEndpoint signals that no inventory endpoint variant accepted the probe.
	ErrNoEndpoint = errors.New("no jamf inventory endpoint available")
)

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config defines settings for the Jamf client. BaseURL is required; exactly
// one credential pair should be set, tried in the order client-credentials
// then basic auth.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	PageSize     int
}

// Client walks the paginated computers-inventory API.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	username     string
	password     string
	pageSize     int
	httpClient   HTTPClient
}

// New creates a Jamf client.
func New(httpClient HTTPClient, cfg Config) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 500
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		username:     cfg.Username,
		password:     cfg.Password,
		pageSize:     pageSize,
		httpClient:   httpClient,
	}
}

// Token obtains a bearer token, preferring the client-credentials grant and
// falling back to basic-auth token exchange.
func (c *Client) Token(ctx context.Context) (string, error) {
	if c.clientID != "" && c.clientSecret != "" {
		form := url.Values{}
		form.Set("grant_type", "client_credentials")
		form.Set("client_id", c.clientID)
		form.Set("client_secret", c.clientSecret)

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/oauth/token", strings.NewReader(form.Encode()))
		if err != nil {
			return "", fmt.Errorf("build oauth request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var body struct {
			AccessToken string `json:"access_token"`
		}
		if err := c.doJSON(req, &body); err != nil {
			return "", fmt.Errorf("oauth token exchange: %w", err)
		}
		return body.AccessToken, nil
	}

	if c.username != "" && c.password != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/token", nil)
		if err != nil {
			return "", fmt.Errorf("build auth request: %w", err)
		}
		req.SetBasicAuth(c.username, c.password)

		var body struct {
			Token string `json:"token"`
		}
		if err := c.doJSON(req, &body); err != nil {
			return "", fmt.Errorf("basic token exchange: %w", err)
		}
		return body.Token, nil
	}

	return "", ErrNoCredentials
}

// selectInventoryURL probes the endpoint variants with HEAD requests and
// returns the first one that responds successfully. Some Jamf deployments
// reject the bare inventory URL and require an explicit section.
func (c *Client) selectInventoryURL(ctx context.Context, token string) (string, error) {
	candidates := []string{
		fmt.Sprintf("%s/api/v1/computers-inventory?page-size=%d", c.baseURL, c.pageSize),
		fmt.Sprintf("%s/api/v1/computers-inventory?section=GENERAL&page-size=%d", c.baseURL, c.pageSize),
	}
	for _, candidate := range candidates {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, candidate, nil)
		if err != nil {
			return "", fmt.Errorf("build probe request: %w", err)
		}
		c.setAuth(req, token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("probe %s: %w", candidate, err)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return candidate, nil
		}
	}
	return "", ErrNoEndpoint
}

type inventoryPage struct {
	Results    []model.DeviceRecord `json:"results"`
	Pagination struct {
		Next string `json:"next"`
	} `json:"pagination"`
}

// fetchPage retrieves one page of device records plus the next-page cursor.
func (c *Client) fetchPage(ctx context.Context, pageURL, token string) (inventoryPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return inventoryPage{}, fmt.Errorf("build page request: %w", err)
	}
	c.setAuth(req, token)

	var page inventoryPage
	if err := c.doJSON(req, &page); err != nil {
		return inventoryPage{}, fmt.Errorf("fetch inventory page: %w", err)
	}
	return page, nil
}

// StreamDevices walks the full pagination, invoking fn for every device
// record. Each call acquires a fresh token and re-probes the endpoint, so a
// walk is restartable per invocation. The total page count is not known up
// front; the walk ends when a page carries no next cursor.
func (c *Client) StreamDevices(ctx context.Context, fn func(model.DeviceRecord) error) error {
	token, err := c.Token(ctx)
	if err != nil {
		return err
	}

	pageURL, err := c.selectInventoryURL(ctx, token)
	if err != nil {
		return err
	}

	for pageURL != "" {
		page, err := c.fetchPage(ctx, pageURL, token)
		if err != nil {
			return err
		}
		for _, record := range page.Results {
			if err := fn(record); err != nil {
				return err
			}
		}
		pageURL = page.Pagination.Next
	}
	return nil
}

func (c *Client) setAuth(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
