// Package openai is an embeddings client for OpenAI-compatible endpoints,
// including Ollama's native response shape.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/ragkeeper/internal/netx"
)

// Config configures the client.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	// Dimensions asks models that support it for shorter vectors; 0 keeps
	// the model default.
	Dimensions int
	Timeout    time.Duration
	MaxRetries int
}

// Client implements embedding.Embedder over HTTP.
type Client struct {
	url        string
	apiKey     string
	model      string
	dimensions int
	maxRetries int
	backoff    time.Duration
	client     *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai embeddings: missing API key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	return &Client{
		url:        strings.TrimRight(cfg.BaseURL, "/") + "/embeddings",
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		maxRetries: cfg.MaxRetries,
		backoff:    200 * time.Millisecond,
		client:     &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *Client) Name() string { return "openai" }

// Prepare is a no-op: the remote model needs no corpus pass.
func (c *Client) Prepare([]string) error { return nil }

type embedRequest struct {
	Input      string `json:"input"`
	Prompt     string `json:"prompt,omitempty"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions,omitempty"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Embedding []float64 `json:"embedding"`
}

// Embed returns the embedding of text, retrying with backoff on transport
// errors, 429 and 5xx responses.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	req := embedRequest{Input: text, Prompt: text, Model: c.model, Dimensions: c.dimensions}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := netx.SleepCtx(ctx, netx.Backoff(attempt-1, c.backoff, 5*time.Second)); err != nil {
				return nil, err
			}
		}

		var out embedResponse
		err := netx.DoJSON(ctx, c.client, http.MethodPost, c.url, headers, req, &out)
		if err == nil {
			if len(out.Data) > 0 && len(out.Data[0].Embedding) > 0 {
				return out.Data[0].Embedding, nil
			}
			if len(out.Embedding) > 0 {
				return out.Embedding, nil
			}
			return nil, errors.New("openai embeddings: empty embedding in response")
		}

		lastErr = err
		var se *netx.StatusError
		if errors.As(err, &se) && !se.Retryable() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}
