package domain

// SearchResult is one normalized web search hit.
// Results are request-scoped and never persisted beyond the cache TTL.
type SearchResult struct {
	Rank    int    `json:"rank"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url,omitempty"`
}

// MaxSearchResults caps the number of results any provider may return.
const MaxSearchResults = 5
