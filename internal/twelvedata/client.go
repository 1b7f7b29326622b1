// Package twelvedata is the HTTP client for the mutual fund catalog service.
package twelvedata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wealthlens/fundadvisor/internal/advisor"
)

const (
	DefaultBaseURL = "https://api.twelvedata.com"
	listPath       = "/mutual_funds/list"
)

type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	cfg Config
}

func New(cfg Config) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, errors.New("TWELVEDATA_API_KEY not configured")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg}, nil
}

// ListInstruments issues the catalog lookup with the extracted parameters as
// query arguments plus the provider credential, and returns the raw body of a
// successful response.
func (c *Client) ListInstruments(ctx context.Context, params advisor.QueryParameters) ([]byte, error) {
	q := url.Values{}
	for key, value := range params {
		q.Set(key, fmt.Sprint(value))
	}
	q.Set("apikey", c.cfg.APIKey)

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + listPath + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(res.Body, 8<<20))

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code: %d body=%s", res.StatusCode, string(body))
	}
	return body, nil
}
