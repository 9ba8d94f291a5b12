// Package groq talks to Groq's OpenAI-compatible chat completions endpoint.
package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/ragkeeper/internal/common"
	"github.com/dmitrijs2005/ragkeeper/internal/netx"
	"github.com/dmitrijs2005/ragkeeper/internal/server/generation"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.3-70b-versatile"

	// placeholderKey is what the sample .env ships with.
	placeholderKey = "your_groq_api_key_here"
)

// Config configures the client. Timeouts are left to the caller's context.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Client implements generation.Generator.
type Client struct {
	url    string
	apiKey string
	model  string
	client *http.Client
}

// New never fails; a client without an API key answers every call with
// common.ErrGenerationUnavailable.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	key := strings.TrimSpace(cfg.APIKey)
	if key == placeholderKey {
		key = ""
	}
	return &Client{
		url:    strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		apiKey: key,
		model:  cfg.Model,
		client: &http.Client{},
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool { return c.apiKey != "" }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model            string    `json:"model"`
	Messages         []message `json:"messages"`
	Temperature      float64   `json:"temperature"`
	MaxTokens        int       `json:"max_tokens"`
	TopP             float64   `json:"top_p"`
	FrequencyPenalty float64   `json:"frequency_penalty"`
	PresencePenalty  float64   `json:"presence_penalty"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Generate sends prompt as a single user message.
func (c *Client) Generate(ctx context.Context, prompt string, p generation.Params) (string, error) {
	if c.apiKey == "" {
		return "", common.ErrGenerationUnavailable
	}

	req := chatRequest{
		Model:            c.model,
		Messages:         []message{{Role: "user", Content: prompt}},
		Temperature:      p.Temperature,
		MaxTokens:        p.MaxTokens,
		TopP:             p.TopP,
		FrequencyPenalty: p.FrequencyPenalty,
		PresencePenalty:  p.PresencePenalty,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	var out chatResponse
	if err := netx.DoJSON(ctx, c.client, http.MethodPost, c.url, headers, req, &out); err != nil {
		return "", fmt.Errorf("groq: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("groq: no choices in response")
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("groq: empty completion")
	}
	return text, nil
}
