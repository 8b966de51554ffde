package webseek

import (
	"testing"

	"github.com/ollachat/ollachat/internal/domain"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips tags", `<span class="searchmatch">Paris</span> is the capital`, "Paris is the capital"},
		{"decodes entities", "Fish &amp; Chips &lt;fresh&gt;", "Fish & Chips <fresh>"},
		{"collapses whitespace", "a  lot\n\tof   space", "a lot of space"},
		{"trims", "  padded  ", "padded"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanText(tc.in); got != tc.want {
				t.Errorf("cleanText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFinalize(t *testing.T) {
	long := "This snippet is comfortably longer than the minimum length."
	raw := []domain.SearchResult{
		{Title: "A", Snippet: long + " A"},
		{Title: "too short", Snippet: "nope"},
		{Title: "untitled", Snippet: ""},
		{Title: "B", Snippet: long + " B"},
		{Title: "dup of A", Snippet: long + " A"},
		{Title: "C", Snippet: long + " C"},
	}

	out := finalize(raw, 5)

	if len(out) != 3 {
		t.Fatalf("expected 3 results, got %d: %#v", len(out), out)
	}
	for i, r := range out {
		if r.Rank != i+1 {
			t.Errorf("result %d has rank %d, want %d", i, r.Rank, i+1)
		}
	}
	if out[0].Title != "A" || out[1].Title != "B" || out[2].Title != "C" {
		t.Errorf("discovery order not preserved: %#v", out)
	}
}

func TestFinalize_CapsAtFive(t *testing.T) {
	long := "This snippet is comfortably longer than the minimum length"
	raw := make([]domain.SearchResult, 0, 8)
	for i := 0; i < 8; i++ {
		raw = append(raw, domain.SearchResult{
			Title:   "t",
			Snippet: long + string(rune('a'+i)),
		})
	}

	if got := len(finalize(raw, 0)); got != domain.MaxSearchResults {
		t.Errorf("expected cap at %d, got %d", domain.MaxSearchResults, got)
	}
}
