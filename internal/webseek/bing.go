package webseek

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/ollachat/ollachat/internal/domain"
)

const bingEndpoint = "https://www.bing.com/search"

// bingResultPattern matches one organic result block: the h2 link
// followed by the first paragraph of the same block.
var bingResultPattern = regexp.MustCompile(
	`(?s)<h2><a[^>]+href="([^"]+)"[^>]*>(.*?)</a></h2>.*?<p[^>]*>(.*?)</p>`)

// Bing scrapes the HTML results page of the engine.
type Bing struct {
	endpoint   string
	client     *http.Client
	maxResults int
}

// NewBing creates the Bing scraping provider.
func NewBing(client *http.Client, maxResults int) *Bing {
	return &Bing{
		endpoint:   bingEndpoint,
		client:     client,
		maxResults: maxResults,
	}
}

func (b *Bing) Name() string { return "bing" }

// Search fetches the rendered results page and extracts title/snippet pairs.
func (b *Bing) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	u := fmt.Sprintf("%s?q=%s", b.endpoint, url.QueryEscape(query))

	body, err := fetch(ctx, b.client, u, map[string]string{"User-Agent": browserUserAgent})
	if err != nil {
		return nil, fmt.Errorf("bing: %w", err)
	}

	return extractMatches(string(body), bingResultPattern, b.maxResults), nil
}
