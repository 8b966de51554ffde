// Package classify decides whether a user utterance needs live external
// data before the model can answer it.
package classify

import "regexp"

// livePatterns match topics whose answers go stale without a web search.
// Matching is case-insensitive on whole words; any single hit is enough.
var livePatterns = []*regexp.Regexp{
	// weather
	regexp.MustCompile(`(?i)\b(weather|forecast|temperature|humidity|rain|snow)\b`),
	// news and current events
	regexp.MustCompile(`(?i)\b(news|headlines?|current events?|latest|breaking|today'?s)\b`),
	// prices and markets
	regexp.MustCompile(`(?i)\b(price|prices|cost|stock|stocks|market|exchange rate|bitcoin|crypto)\b`),
	// factual lookups
	regexp.MustCompile(`(?i)\b(who|what|when|where)\s+(is|are|was|were)\b`),
	// explicit search intent
	regexp.MustCompile(`(?i)\b(search( for)?|look up|google|find (out|information))\b`),
	// schedules and events
	regexp.MustCompile(`(?i)\b(schedule|event|events|opening hours|showtimes?|what time)\b`),
	// proximity
	regexp.MustCompile(`(?i)\b(near me|nearby|around here|close to me|in my area)\b`),
	// explicit recent years
	regexp.MustCompile(`\b(202[3-9])\b`),
}

// NeedsLiveData reports whether the query calls for fresh external
// information. Pure and total: no I/O, empty input is false.
func NeedsLiveData(query string) bool {
	if query == "" {
		return false
	}
	for _, p := range livePatterns {
		if p.MatchString(query) {
			return true
		}
	}
	return false
}
