package webseek

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ollachat/ollachat/internal/domain"
	"github.com/ollachat/ollachat/internal/metrics"
)

// Searcher turns a query into formatted search context. The boolean is
// false when no provider produced results; callers proceed without
// context, this is never an error.
type Searcher interface {
	SearchWeb(ctx context.Context, query string, loc *domain.Location) (string, bool)
}

// localityPatterns mark queries whose answers depend on where the user
// is; such queries get the place name appended before searching.
var localityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(weather|forecast|temperature)\b`),
	regexp.MustCompile(`(?i)\b(near me|nearby|around here|close to me|in my area)\b`),
	regexp.MustCompile(`(?i)\b(restaurants?|shops?|stores?|cafes?|places?)\b`),
}

// Orchestrator tries providers strictly in construction order and stops
// at the first one that returns results.
type Orchestrator struct {
	providers []Provider
	timeout   time.Duration
	logger    *zap.Logger
}

// NewOrchestrator creates the provider chain. Order is priority order.
func NewOrchestrator(providers []Provider, timeout time.Duration, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		providers: providers,
		timeout:   timeout,
		logger:    logger,
	}
}

// SearchWeb implements Searcher. Each provider call is bounded by the
// configured timeout so a stalled source cannot hold up the chain; a
// timeout counts as a failure and the next provider is tried.
func (o *Orchestrator) SearchWeb(ctx context.Context, query string, loc *domain.Location) (string, bool) {
	query = localizeQuery(query, loc)

	for _, p := range o.providers {
		results := o.try(ctx, p, query)
		if len(results) > 0 {
			o.logger.Debug("search succeeded",
				zap.String("provider", p.Name()),
				zap.Int("results", len(results)),
			)
			return FormatResults(results), true
		}
	}

	o.logger.Debug("all search providers exhausted", zap.String("query", query))
	return "", false
}

func (o *Orchestrator) try(ctx context.Context, p Provider, query string) []domain.SearchResult {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	results, err := p.Search(ctx, query)
	metrics.SearchRequestDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		metrics.SearchRequestsTotal.WithLabelValues(p.Name(), "error").Inc()
		o.logger.Warn("search provider failed", zap.String("provider", p.Name()), zap.Error(err))
		return nil
	case len(results) == 0:
		metrics.SearchRequestsTotal.WithLabelValues(p.Name(), "empty").Inc()
		return nil
	default:
		metrics.SearchRequestsTotal.WithLabelValues(p.Name(), "success").Inc()
		return results
	}
}

// localizeQuery appends the place name for location-sensitive queries.
// Coordinates alone are not appended; without a resolvable name the
// query is left as-is.
func localizeQuery(query string, loc *domain.Location) string {
	if loc == nil || loc.City == "" {
		return query
	}
	for _, p := range localityPatterns {
		if p.MatchString(query) {
			return query + " " + loc.City
		}
	}
	return query
}

// FormatResults renders results as the numbered list embedded in the
// system prompt: "[n] title\nsnippet", entries joined by blank lines.
func FormatResults(results []domain.SearchResult) string {
	entries := make([]string, 0, len(results))
	for _, r := range results {
		entries = append(entries, fmt.Sprintf("[%d] %s\n%s", r.Rank, r.Title, r.Snippet))
	}
	return strings.Join(entries, "\n\n")
}
