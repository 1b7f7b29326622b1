// Package gemini is the default grounding store and summarizer backend: the
// dataset export is uploaded to the file API and referenced from a
// generateContent call as grounding context.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/wealthlens/fundadvisor/internal/advisor"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash"

	csvMIMEType = "text/csv"
)

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

type Client struct {
	cfg Config
}

func New(cfg Config) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, errors.New("GENAI_API_KEY not configured")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Client{cfg: cfg}, nil
}

// Upload pushes the export file to the file API and returns a handle carrying
// the remote URI. The uploaded copy is not cleaned up here; its lifecycle
// belongs to the store.
func (c *Client) Upload(ctx context.Context, path string) (advisor.FileHandle, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return advisor.FileHandle{}, err
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/upload/v1beta/files?key=" + c.cfg.APIKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(blob))
	if err != nil {
		return advisor.FileHandle{}, err
	}
	req.Header.Set("Content-Type", csvMIMEType)
	req.Header.Set("X-Goog-Upload-Protocol", "raw")

	body, err := c.do(req)
	if err != nil {
		return advisor.FileHandle{}, err
	}

	uri := gjson.GetBytes(body, "file.uri").String()
	if uri == "" {
		return advisor.FileHandle{}, fmt.Errorf("upload response missing file uri: %s", string(body))
	}
	return advisor.FileHandle{URI: uri, Path: path, MIMEType: csvMIMEType}, nil
}

// Generate runs one generateContent call with the prompt and the uploaded
// dataset as parts, and concatenates the text parts of the first candidate.
func (c *Client) Generate(ctx context.Context, prompt string, handle advisor.FileHandle) (string, error) {
	payload, _ := json.Marshal(map[string]any{
		"contents": []map[string]any{{
			"parts": []map[string]any{
				{"text": prompt},
				{"file_data": map[string]string{"mime_type": handle.MIMEType, "file_uri": handle.URI}},
			},
		}},
	})

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1beta/models/" + c.cfg.Model + ":generateContent?key=" + c.cfg.APIKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, part := range gjson.GetBytes(body, "candidates.0.content.parts").Array() {
		sb.WriteString(part.Get("text").String())
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("generate response contained no text: %s", string(body))
	}
	return sb.String(), nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(res.Body, 16<<20))

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code: %d body=%s", res.StatusCode, string(body))
	}
	return body, nil
}
