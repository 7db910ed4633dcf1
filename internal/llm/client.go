// Package llm wraps the Anthropic messages API for the report agent and
// the interactive assistant.
package llm

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jonesrussell/incident-insight/internal/config"
	"github.com/jonesrussell/incident-insight/internal/logger"
)

// minAnalysisLength is the shortest reply, in runes, still treated as a
// usable analysis. Anything shorter becomes FallbackAnalysis.
const minAnalysisLength = 100

const apiMaxRetries = 3

// FallbackAnalysis replaces empty or truncated model replies.
const FallbackAnalysis = "Nepodařilo se vygenerovat analýzu. LLM vrátilo prázdnou nebo příliš krátkou odpověď."

// Client talks to the Anthropic messages API.
type Client struct {
	api anthropic.Client
	cfg config.LLMConfig
	log logger.Logger
}

// NewClient creates a client from cfg. The API key is required; BaseURL
// is optional and may point at a proxy.
func NewClient(cfg config.LLMConfig, log logger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(apiMaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		api: anthropic.NewClient(opts...),
		cfg: cfg,
		log: log,
	}, nil
}

// Complete sends a single user prompt and returns the concatenated text
// content of the reply.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	c.log.Debug("Sending completion request",
		logger.String("model", c.cfg.Model),
		logger.Int("prompt_length", len(prompt)))

	message, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.cfg.Model),
		MaxTokens:   int64(c.cfg.MaxTokens),
		Temperature: anthropic.Float(c.cfg.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	return TextContent(message), nil
}

// Converse sends a whole conversation, optionally exposing tools the
// model may call, and returns the raw reply so the caller can drive a
// tool-use loop.
func (c *Client) Converse(ctx context.Context, messages []anthropic.MessageParam, tools []anthropic.ToolUnionParam) (*anthropic.Message, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: int64(c.cfg.MaxTokens),
		Messages:  messages,
	}
	if len(tools) > 0 {
		params.Tools = tools
	}

	message, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("conversation request failed: %w", err)
	}

	return message, nil
}

// Analyze asks the model for a plain-text analysis of formattedData.
// Replies too short to be a real analysis are replaced with
// FallbackAnalysis so the report pipeline always has something to print.
func (c *Client) Analyze(ctx context.Context, formattedData string) (string, error) {
	text, err := c.Complete(ctx, BuildAnalysisPrompt(formattedData))
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minAnalysisLength {
		c.log.Warn("Model returned an unusable analysis",
			logger.Int("length", utf8.RuneCountInString(text)))
		return FallbackAnalysis, nil
	}

	return text, nil
}

// TextContent concatenates the text blocks of a reply, skipping tool use
// and other non-text content.
func TextContent(message *anthropic.Message) string {
	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}
