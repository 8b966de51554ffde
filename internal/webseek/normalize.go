package webseek

import (
	"html"
	"regexp"
	"strings"

	"github.com/ollachat/ollachat/internal/domain"
)

// minSnippetLen drops decorative or truncated snippets; anything this
// short carries no usable context for the model.
const minSnippetLen = 30

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// cleanText strips markup, decodes HTML entities, and collapses
// whitespace runs to single spaces.
func cleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// finalize applies the normalization rules shared by all providers:
// drop short snippets, dedupe by snippet text, cap the count, and
// assign 1-based ranks in discovery order.
func finalize(raw []domain.SearchResult, max int) []domain.SearchResult {
	if max <= 0 || max > domain.MaxSearchResults {
		max = domain.MaxSearchResults
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]domain.SearchResult, 0, max)
	for _, r := range raw {
		if r.Title == "" || len(r.Snippet) < minSnippetLen {
			continue
		}
		if _, dup := seen[r.Snippet]; dup {
			continue
		}
		seen[r.Snippet] = struct{}{}

		r.Rank = len(out) + 1
		out = append(out, r)
		if len(out) == max {
			break
		}
	}
	return out
}
