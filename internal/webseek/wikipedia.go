package webseek

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollachat/ollachat/internal/domain"
)

const wikipediaEndpoint = "https://en.wikipedia.org/w/api.php"

// Wikipedia is the keyless knowledge-base provider. Snippets come back
// with searchmatch markup that cleanText strips.
type Wikipedia struct {
	endpoint   string
	client     *http.Client
	maxResults int
}

// NewWikipedia creates the Wikipedia search provider.
func NewWikipedia(client *http.Client, maxResults int) *Wikipedia {
	return &Wikipedia{
		endpoint:   wikipediaEndpoint,
		client:     client,
		maxResults: maxResults,
	}
}

func (w *Wikipedia) Name() string { return "wikipedia" }

type wikipediaResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

// Search queries the MediaWiki list=search endpoint.
func (w *Wikipedia) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	u := fmt.Sprintf("%s?action=query&list=search&format=json&srlimit=%d&srsearch=%s",
		w.endpoint, w.maxResults, url.QueryEscape(query))

	body, err := fetch(ctx, w.client, u, nil)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: %w", err)
	}

	var resp wikipediaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("wikipedia: %w: parse response: %v", domain.ErrProviderFailed, err)
	}

	raw := make([]domain.SearchResult, 0, len(resp.Query.Search))
	for _, r := range resp.Query.Search {
		title := cleanText(r.Title)
		raw = append(raw, domain.SearchResult{
			Title:   title,
			Snippet: cleanText(r.Snippet),
			URL:     "https://en.wikipedia.org/wiki/" + url.PathEscape(title),
		})
	}
	return finalize(raw, w.maxResults), nil
}
