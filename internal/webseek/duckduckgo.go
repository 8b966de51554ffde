package webseek

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/ollachat/ollachat/internal/domain"
)

const duckDuckGoEndpoint = "https://html.duckduckgo.com/html/"

// Scraped markup is not a contract, so two extraction patterns are
// kept: the current result classes and the older lite-page classes.
// The fallback runs only when the primary finds nothing.
var (
	ddgPrimaryPattern = regexp.MustCompile(
		`(?s)class="result__a"[^>]*href="([^"]+)"[^>]*>(.*?)</a>.*?class="result__snippet"[^>]*>(.*?)</a>`)
	ddgFallbackPattern = regexp.MustCompile(
		`(?s)<a[^>]+href=['"]([^'"]+)['"][^>]*class=['"]result-link['"][^>]*>(.*?)</a>.*?class=['"]result-snippet['"][^>]*>(.*?)</td>`)
)

// DuckDuckGo scrapes the HTML results page of the engine.
type DuckDuckGo struct {
	endpoint   string
	client     *http.Client
	maxResults int
}

// NewDuckDuckGo creates the DuckDuckGo scraping provider.
func NewDuckDuckGo(client *http.Client, maxResults int) *DuckDuckGo {
	return &DuckDuckGo{
		endpoint:   duckDuckGoEndpoint,
		client:     client,
		maxResults: maxResults,
	}
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Search fetches the rendered results page and extracts title/snippet
// pairs, falling back to the secondary pattern on zero primary hits.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	u := fmt.Sprintf("%s?q=%s", d.endpoint, url.QueryEscape(query))

	body, err := fetch(ctx, d.client, u, map[string]string{"User-Agent": browserUserAgent})
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: %w", err)
	}

	results := extractMatches(string(body), ddgPrimaryPattern, d.maxResults)
	if len(results) == 0 {
		results = extractMatches(string(body), ddgFallbackPattern, d.maxResults)
	}
	return results, nil
}

// extractMatches maps (url, title, snippet) submatches to results.
func extractMatches(page string, pattern *regexp.Regexp, max int) []domain.SearchResult {
	matches := pattern.FindAllStringSubmatch(page, -1)

	raw := make([]domain.SearchResult, 0, len(matches))
	for _, m := range matches {
		raw = append(raw, domain.SearchResult{
			Title:   cleanText(m[2]),
			Snippet: cleanText(m[3]),
			URL:     m[1],
		})
	}
	return finalize(raw, max)
}
