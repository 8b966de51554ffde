// Package webseek gathers topical web snippets for prompt augmentation.
// Providers are tried in priority order; every provider failure resolves
// to an empty result, never an error surfaced to the chat request.
package webseek

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ollachat/ollachat/internal/domain"
)

// Provider is one external search source. Implementations return their
// hits already normalized (see finalize); an empty slice with a nil
// error means the source answered but had nothing usable.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// browserUserAgent is sent on scraping requests; the target engines
// serve different (or no) markup to non-browser agents.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// maxBodyBytes bounds how much of a provider response is read.
const maxBodyBytes = 2 << 20

// fetch issues a GET and returns the response body. Non-2xx statuses
// are errors; the caller decides what that means for the chain.
func fetch(ctx context.Context, client *http.Client, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrProviderFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrProviderFailed, err)
	}
	return body, nil
}
