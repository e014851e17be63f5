// Package llm assembles audit prompts, talks to the Gemini generateContent
// endpoint, and recovers answer text from its loosely shaped responses.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1"
	DefaultModel   = "models/gemini-2.5-flash"

	userAgent = "AuditBot/1.0"
)

// Config for the Gemini client.
type Config struct {
	APIKey  string
	BaseURL string        // default DefaultBaseURL
	Timeout time.Duration // http client timeout
}

// TransportError carries a non-2xx response verbatim: status code and body.
type TransportError struct {
	StatusCode int
	Body       []byte
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client issues single synchronous requests. There is no retry policy: a
// request either succeeds once or fails.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// GenerateContent sends the prompt to the named model and returns the raw
// response body. A "models/" prefix on the model name is accepted and
// stripped.
func (c *Client) GenerateContent(ctx context.Context, model, prompt string) ([]byte, error) {
	id := strings.TrimPrefix(model, "models/")
	if id == "" {
		id = strings.TrimPrefix(DefaultModel, "models/")
	}

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", strings.TrimRight(c.cfg.BaseURL, "/"), id, c.cfg.APIKey)

	c.logger.Info("llm.generate.start", "model", id, "prompt_len", len(prompt))
	raw, status, err := SendJSON(ctx, c.http, url, body, c.logger)
	if err != nil {
		if status != 0 {
			return nil, &TransportError{StatusCode: status, Body: raw}
		}
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return raw, nil
}

// ModelInfo is one entry of the ListModels response.
type ModelInfo struct {
	Name                       string   `json:"name"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

// ListModels returns the models available to the configured credential.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	url := fmt.Sprintf("%s/models?key=%s", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.APIKey)
	raw, status, err := GetJSON(ctx, c.http, url, c.logger)
	if err != nil {
		if status != 0 {
			return nil, &TransportError{StatusCode: status, Body: raw}
		}
		return nil, fmt.Errorf("list models: %w", err)
	}
	var out struct {
		Models []ModelInfo `json:"models"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode models list: %w", err)
	}
	return out.Models, nil
}

// ChooseModel returns the first listed model that advertises the
// generateContent method, or DefaultModel when discovery fails or nothing
// qualifies.
func (c *Client) ChooseModel(ctx context.Context) string {
	models, err := c.ListModels(ctx)
	if err != nil {
		c.logger.Warn("llm.models.discovery_failed", "error", err, "fallback", DefaultModel)
		return DefaultModel
	}
	for _, m := range models {
		for _, method := range m.SupportedGenerationMethods {
			if method == "generateContent" {
				c.logger.Info("llm.models.chosen", "model", m.Name)
				return m.Name
			}
		}
	}
	c.logger.Warn("llm.models.none_support_generate", "fallback", DefaultModel)
	return DefaultModel
}
