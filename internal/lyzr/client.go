// Package lyzr is the HTTP client for the conversational agent service used
// to derive catalog query parameters from a free-text investor profile.
package lyzr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://agent.api.lyzr.app"
	chatPath       = "/v2/chat/"
)

type Config struct {
	APIKey     string
	AgentID    string
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	cfg Config
}

func New(cfg Config) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.AgentID = strings.TrimSpace(cfg.AgentID)
	if cfg.APIKey == "" {
		return nil, errors.New("LYZR_API_KEY not configured")
	}
	if cfg.AgentID == "" {
		return nil, errors.New("AGENT_ID not configured")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg}, nil
}

// Converse sends one chat turn to the configured agent and returns the raw
// reply body. The caller parses the envelope; this layer only distinguishes
// transport failures and non-success statuses.
func (c *Client) Converse(ctx context.Context, userID, sessionID, message string) (string, error) {
	payload, _ := json.Marshal(map[string]string{
		"user_id":    userID,
		"agent_id":   c.cfg.AgentID,
		"session_id": sessionID,
		"message":    message,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.cfg.BaseURL, "/")+chatPath, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)

	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(res.Body, 2<<20))

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status code: %d body=%s", res.StatusCode, string(body))
	}
	return string(body), nil
}
