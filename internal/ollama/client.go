// Package ollama is the client for the Ollama-compatible inference
// backend: a streaming chat call plus model listing.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ollachat/ollachat/internal/domain"
)

// Client talks to one inference backend. Safe for concurrent use; every
// chat request opens its own upstream connection.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// Config holds the backend connection settings.
type Config struct {
	BaseURL string
	Logger  *zap.Logger
}

// NewClient creates an inference backend client. The underlying HTTP
// client carries no global timeout: chat responses stream for as long
// as the model generates, and cancellation comes from the request
// context instead.
func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc:   &http.Client{},
		logger:  logger,
	}
}

type chatRequest struct {
	Model    string           `json:"model"`
	Messages []domain.Message `json:"messages"`
	Stream   bool             `json:"stream"`
}

// Model is one installed model as reported by the backend.
type Model struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	Digest     string `json:"digest"`
	ModifiedAt string `json:"modified_at"`
}

// Chat opens a streaming chat request. The returned stream is live as
// soon as this returns; the caller owns it and must Close it. A non-2xx
// upstream status fails here, before any downstream bytes are written.
func (c *Client) Chat(ctx context.Context, model string, messages []domain.Message) (*Stream, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}

	return newStream(resp.Body, c.logger), nil
}

// ListModels returns the models installed on the backend.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build tags request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}

	var body struct {
		Models []Model `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode tags response: %w", err)
	}
	return body.Models, nil
}
