package webseek

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollachat/ollachat/internal/domain"
)

const braveEndpoint = "https://api.search.brave.com/res/v1/web/search"

// Brave is the keyed API provider. It is only constructed when an API
// key is configured; an absent key means the provider does not exist,
// not that it failed.
type Brave struct {
	apiKey     string
	endpoint   string
	client     *http.Client
	maxResults int
}

// NewBrave creates the Brave Search API provider.
func NewBrave(apiKey string, client *http.Client, maxResults int) *Brave {
	return &Brave{
		apiKey:     apiKey,
		endpoint:   braveEndpoint,
		client:     client,
		maxResults: maxResults,
	}
}

func (b *Brave) Name() string { return "brave" }

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
		} `json:"results"`
	} `json:"web"`
}

// Search queries the Brave web search API.
func (b *Brave) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	u := fmt.Sprintf("%s?q=%s&count=%d", b.endpoint, url.QueryEscape(query), b.maxResults)

	body, err := fetch(ctx, b.client, u, map[string]string{
		"Accept":               "application/json",
		"X-Subscription-Token": b.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("brave: %w", err)
	}

	var resp braveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("brave: %w: parse response: %v", domain.ErrProviderFailed, err)
	}

	raw := make([]domain.SearchResult, 0, len(resp.Web.Results))
	for _, r := range resp.Web.Results {
		raw = append(raw, domain.SearchResult{
			Title:   cleanText(r.Title),
			Snippet: cleanText(r.Description),
			URL:     r.URL,
		})
	}
	return finalize(raw, b.maxResults), nil
}
