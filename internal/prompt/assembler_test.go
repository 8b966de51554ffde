package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/ollachat/ollachat/internal/domain"
)

var testNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

func TestAssemble_EnglishPersona(t *testing.T) {
	got := Assemble(Input{Language: "en", Now: testNow})
	if got != personaEN {
		t.Errorf("plain English prompt should be the bare persona, got %q", got)
	}
}

func TestAssemble_ChinesePersona(t *testing.T) {
	got := Assemble(Input{Language: "zh", Now: testNow})
	if got != personaZH {
		t.Errorf("plain Chinese prompt should be the bare persona, got %q", got)
	}
	if strings.Contains(got, "helpful AI assistant") {
		t.Error("Chinese prompt must not contain the English persona")
	}
}

func TestAssemble_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	got := Assemble(Input{Language: "fr", Now: testNow})
	if !strings.HasPrefix(got, personaEN) {
		t.Errorf("unknown language should fall back to English persona, got %q", got)
	}
}

func TestAssemble_LocationClause(t *testing.T) {
	loc := &domain.Location{Lat: 48.856613, Lon: 2.352222, City: "Paris"}
	got := Assemble(Input{Language: "en", Location: loc, Now: testNow})

	if !strings.Contains(got, "latitude 48.8566") {
		t.Errorf("expected latitude rounded to 4 decimals, got %q", got)
	}
	if !strings.Contains(got, "longitude 2.3522") {
		t.Errorf("expected longitude rounded to 4 decimals, got %q", got)
	}
	if !strings.Contains(got, "(Paris)") {
		t.Errorf("expected city name in location clause, got %q", got)
	}
}

func TestAssemble_SearchResultsClause(t *testing.T) {
	results := "[1] Paris weather\nSunny, 18 degrees."
	got := Assemble(Input{
		Language:      "en",
		NeedsLiveData: true,
		SearchContext: results,
		Now:           testNow,
	})

	if !strings.Contains(got, "Friday, March 14, 2025") {
		t.Errorf("expected long-form date, got %q", got)
	}
	if !strings.Contains(got, results) {
		t.Error("search results must appear verbatim in the prompt")
	}
	if !strings.Contains(got, "bracket number") {
		t.Error("expected the citation instruction")
	}
	if strings.Contains(got, "returned no results") {
		t.Error("disclaimer must not appear when results are present")
	}
}

func TestAssemble_DisclaimerOnEmptySearch(t *testing.T) {
	got := Assemble(Input{
		Language:      "en",
		NeedsLiveData: true,
		SearchContext: "",
		Now:           testNow,
	})

	if !strings.Contains(got, "A web search was attempted but returned no results") {
		t.Errorf("expected the failed-search disclaimer, got %q", got)
	}
	if !strings.Contains(got, "Friday, March 14, 2025") {
		t.Error("date clause must still appear when search failed")
	}
}

func TestAssemble_ChineseDateFormat(t *testing.T) {
	got := Assemble(Input{
		Language:      "zh",
		NeedsLiveData: true,
		SearchContext: "[1] 巴黎天气\n晴，18度。",
		Now:           testNow,
	})

	if !strings.Contains(got, "2025年3月14日") {
		t.Errorf("expected Chinese date format, got %q", got)
	}
}

func TestAssemble_NoLiveDataClauseWhenNotNeeded(t *testing.T) {
	got := Assemble(Input{Language: "en", NeedsLiveData: false, Now: testNow})
	if strings.Contains(got, "Today's date") {
		t.Error("date clause must not appear for requests without live data")
	}
}
