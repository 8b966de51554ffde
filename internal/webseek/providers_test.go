package webseek

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func serve(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBrave_Search(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Subscription-Token")
		_, _ = io.WriteString(w, `{"web":{"results":[
			{"title":"Paris climate","description":"Current conditions in Paris with hourly updates and radar.","url":"https://example.com/w"},
			{"title":"short","description":"tiny","url":"https://example.com/s"}
		]}}`)
	}))
	t.Cleanup(srv.Close)

	p := NewBrave("test-key", srv.Client(), 5)
	p.endpoint = srv.URL

	results, err := p.Search(context.Background(), "paris weather")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotToken != "test-key" {
		t.Errorf("expected API key header, got %q", gotToken)
	}
	if len(results) != 1 {
		t.Fatalf("expected the short result filtered out, got %#v", results)
	}
	if results[0].Rank != 1 || results[0].Title != "Paris climate" {
		t.Errorf("unexpected result: %#v", results[0])
	}
}

func TestBrave_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	p := NewBrave("bad-key", srv.Client(), 5)
	p.endpoint = srv.URL

	if _, err := p.Search(context.Background(), "q"); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestWikipedia_StripsSearchMarkup(t *testing.T) {
	srv := serve(t, "application/json", `{"query":{"search":[
		{"title":"Paris","snippet":"<span class=\"searchmatch\">Paris</span> is the capital and most populous city of France."}
	]}}`)

	p := NewWikipedia(srv.Client(), 5)
	p.endpoint = srv.URL

	results, err := p.Search(context.Background(), "paris")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %#v", results)
	}
	want := "Paris is the capital and most populous city of France."
	if results[0].Snippet != want {
		t.Errorf("snippet = %q, want %q", results[0].Snippet, want)
	}
}

func TestDuckDuckGo_PrimaryPattern(t *testing.T) {
	page := `<div class="result"><h2 class="result__title">` +
		`<a rel="nofollow" class="result__a" href="https://example.com/a">First &amp; Best Result</a></h2>` +
		`<a class="result__snippet" href="https://example.com/a">This is the first snippet, definitely long enough to keep.</a></div>`
	srv := serve(t, "text/html", page)

	p := NewDuckDuckGo(srv.Client(), 5)
	p.endpoint = srv.URL

	results, err := p.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %#v", results)
	}
	if results[0].Title != "First & Best Result" {
		t.Errorf("entities not decoded in title: %q", results[0].Title)
	}
	if results[0].URL != "https://example.com/a" {
		t.Errorf("unexpected url %q", results[0].URL)
	}
}

func TestDuckDuckGo_FallbackPattern(t *testing.T) {
	// Markup without the primary result__ classes; only the fallback
	// lite-page pattern applies.
	page := `<tr><td><a rel="nofollow" href="https://example.com/b" class='result-link'>Lite Result</a></td></tr>` +
		`<tr><td class='result-snippet'>A fallback snippet that is also long enough to keep around.</td></tr>`
	srv := serve(t, "text/html", page)

	p := NewDuckDuckGo(srv.Client(), 5)
	p.endpoint = srv.URL

	results, err := p.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Lite Result" {
		t.Fatalf("fallback pattern not applied: %#v", results)
	}
}

func TestDuckDuckGo_UnrecognizedMarkup(t *testing.T) {
	srv := serve(t, "text/html", `<html><body><p>redesigned page</p></body></html>`)

	p := NewDuckDuckGo(srv.Client(), 5)
	p.endpoint = srv.URL

	results, err := p.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results from unknown markup, got %#v", results)
	}
}

func TestBing_Search(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = io.WriteString(w, `<li class="b_algo"><h2><a href="https://example.com/c" h="ID=1">Bing Result Title</a></h2>`+
			`<div class="b_caption"><p>The bing snippet which is long enough to pass the filter easily.</p></div></li>`)
	}))
	t.Cleanup(srv.Close)

	p := NewBing(srv.Client(), 5)
	p.endpoint = srv.URL

	results, err := p.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotUA != browserUserAgent {
		t.Errorf("scraper must send a browser user-agent, got %q", gotUA)
	}
	if len(results) != 1 || results[0].Title != "Bing Result Title" {
		t.Fatalf("unexpected results: %#v", results)
	}
}

func TestNews_FiltersBoilerplate(t *testing.T) {
	feed := `<?xml version="1.0" encoding="utf-8"?><rss version="2.0"><channel>` +
		`<title>paris - Bing News</title>` +
		`<item><title>paris - Bing News</title><description>Search results feed for this query page.</description><link>https://bing.com</link></item>` +
		`<item><title>Real headline</title><description>A proper description that is certainly long enough to keep.</description><link>https://example.com/n</link></item>` +
		`<item><title>Short one</title><description>tiny</description><link>https://example.com/t</link></item>` +
		`<item><title>No description</title><description></description><link>https://example.com/e</link></item>` +
		`</channel></rss>`
	srv := serve(t, "application/rss+xml", feed)

	p := NewNews(srv.Client(), 5)
	p.endpoint = srv.URL

	results, err := p.Search(context.Background(), "paris")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected only the real headline, got %#v", results)
	}
	if results[0].Title != "Real headline" {
		t.Errorf("unexpected result %#v", results[0])
	}
}

func TestProvider_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	p := NewWikipedia(srv.Client(), 5)
	p.endpoint = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := p.Search(ctx, "slow"); err == nil {
		t.Fatal("expected error when the provider call exceeds its deadline")
	}
}
