package webseek

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollachat/ollachat/internal/domain"
)

const newsEndpoint = "https://www.bing.com/news/search"

// News is the RSS/syndication provider, reading the feed-formatted
// variant of the news results page.
type News struct {
	endpoint   string
	client     *http.Client
	maxResults int
}

// NewNews creates the news feed provider.
func NewNews(client *http.Client, maxResults int) *News {
	return &News{
		endpoint:   newsEndpoint,
		client:     client,
		maxResults: maxResults,
	}
}

func (n *News) Name() string { return "news" }

type rssFeed struct {
	Channel struct {
		Title string    `xml:"title"`
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Link        string `xml:"link"`
}

// Search fetches the feed and extracts item titles and descriptions,
// dropping boilerplate entries: branding-only titles, empty or
// too-short descriptions.
func (n *News) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	u := fmt.Sprintf("%s?q=%s&format=rss", n.endpoint, url.QueryEscape(query))

	body, err := fetch(ctx, n.client, u, map[string]string{"User-Agent": browserUserAgent})
	if err != nil {
		return nil, fmt.Errorf("news: %w", err)
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("news: %w: parse feed: %v", domain.ErrProviderFailed, err)
	}

	channelTitle := cleanText(feed.Channel.Title)

	raw := make([]domain.SearchResult, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		title := cleanText(item.Title)
		desc := cleanText(item.Description)
		if title == "" || desc == "" {
			continue
		}
		// Feed readers get a self-describing entry per page; it carries
		// no news content.
		if strings.EqualFold(title, channelTitle) {
			continue
		}
		raw = append(raw, domain.SearchResult{
			Title:   title,
			Snippet: desc,
			URL:     item.Link,
		})
	}
	return finalize(raw, n.maxResults), nil
}
