// Package anthropicllm is the alternate summarizer backend. It has no file
// store of its own, so Upload only stages the export locally and Generate
// carries the dataset text inside the message as a second content block.
// At the pipeline boundary the behavior matches the default backend: prompt
// and handle in, raw text out.
package anthropicllm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/wealthlens/fundadvisor/internal/advisor"
)

const systemPrompt = "You are a financial advisor generating structured investment recommendations. Respond with strict JSON only."

type Messager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type Caller struct {
	messages Messager
}

type ClientCreator func(apiKey string) Messager

func defaultCreator(apiKey string) Messager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newClient ClientCreator = defaultCreator

func NewCallerFromEnv() (*Caller, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	return &Caller{messages: newClient(apiKey)}, nil
}

// Upload verifies the export exists and mints a handle pointing at it. The
// dataset content rides in the Generate call, so there is nothing to push.
func (c *Caller) Upload(ctx context.Context, path string) (advisor.FileHandle, error) {
	if _, err := os.Stat(path); err != nil {
		return advisor.FileHandle{}, err
	}
	return advisor.FileHandle{Path: path, MIMEType: "text/csv"}, nil
}

func (c *Caller) Generate(ctx context.Context, prompt string, handle advisor.FileHandle) (string, error) {
	blob, err := os.ReadFile(handle.Path)
	if err != nil {
		return "", err
	}

	resp, err := c.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.ModelClaudeSonnet4_20250514,
		MaxTokens: 8192,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
				anthropic.NewTextBlock(fmt.Sprintf("Attached mutual funds dataset (CSV):\n%s", string(blob))),
			),
		},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}
