// Package mfapi is the HTTP client for the scheme search and NAV history
// service. It backs both the SeriesSearchService and SeriesService contracts.
package mfapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wealthlens/fundadvisor/internal/advisor"
)

const DefaultBaseURL = "https://api.mfapi.in"

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	cfg Config
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg}
}

// Search looks a fund name up by fuzzy match and returns the hits in the
// service's order. The scheme code arrives as a JSON number and is carried as
// a string from here on.
func (c *Client) Search(ctx context.Context, name string) ([]advisor.SchemeMatch, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/mf/search?q=" + url.QueryEscape(name)
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var raw []struct {
		SchemeCode json.Number `json:"schemeCode"`
		SchemeName string      `json:"schemeName"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	matches := make([]advisor.SchemeMatch, 0, len(raw))
	for _, hit := range raw {
		matches = append(matches, advisor.SchemeMatch{
			SchemeName: hit.SchemeName,
			SchemeCode: hit.SchemeCode.String(),
		})
	}
	return matches, nil
}

// GetSeries fetches a scheme's metadata and full NAV history. The history is
// delivered newest-first by the service; ordering is passed through untouched.
func (c *Client) GetSeries(ctx context.Context, schemeCode string) (advisor.SchemeData, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/mf/" + url.PathEscape(schemeCode)
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return advisor.SchemeData{}, err
	}

	var raw struct {
		Meta struct {
			FundHouse      string `json:"fund_house"`
			SchemeType     string `json:"scheme_type"`
			SchemeCategory string `json:"scheme_category"`
			SchemeName     string `json:"scheme_name"`
		} `json:"meta"`
		Data []struct {
			Date string `json:"date"`
			NAV  string `json:"nav"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return advisor.SchemeData{}, fmt.Errorf("parse scheme response: %w", err)
	}

	data := advisor.SchemeData{
		Meta: advisor.SchemeMeta{
			FundHouse:      raw.Meta.FundHouse,
			SchemeType:     raw.Meta.SchemeType,
			SchemeCategory: raw.Meta.SchemeCategory,
			SchemeName:     raw.Meta.SchemeName,
		},
		Data: make([]advisor.SeriesEntry, 0, len(raw.Data)),
	}
	for _, entry := range raw.Data {
		data.Data = append(data.Data, advisor.SeriesEntry{Date: entry.Date, NAV: entry.NAV})
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
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
