// Package prompt assembles the per-request system instruction.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/ollachat/ollachat/internal/domain"
)

const (
	personaEN = "You are a helpful AI assistant. Respond clearly and accurately to user questions."
	personaZH = "你是一个有帮助的AI助手。请用中文回复用户的问题，保持回答清晰、准确、有条理。"
)

// Input carries everything the assembler needs. SearchContext is the
// orchestrator's formatted result list; empty means search found nothing.
type Input struct {
	Language      string
	Location      *domain.Location
	NeedsLiveData bool
	SearchContext string
	Now           time.Time
}

// Assemble builds the system prompt. Clause order is fixed: persona,
// then location, then the live-data clause. When live data was needed
// but search came back empty, the prompt says so explicitly instead of
// letting the model pass off stale knowledge as current.
func Assemble(in Input) string {
	zh := in.Language == domain.LanguageChinese

	var b strings.Builder
	if zh {
		b.WriteString(personaZH)
	} else {
		b.WriteString(personaEN)
	}

	if in.Location != nil {
		b.WriteString(locationClause(zh, in.Location))
	}

	if in.NeedsLiveData {
		if in.SearchContext != "" {
			b.WriteString(searchClause(zh, in.Now, in.SearchContext))
		} else {
			b.WriteString(noResultsClause(zh, in.Now))
		}
	}

	return b.String()
}

func locationClause(zh bool, loc *domain.Location) string {
	if zh {
		if loc.City != "" {
			return fmt.Sprintf("\n\n用户的大致位置：纬度 %.4f，经度 %.4f（%s）。", loc.Lat, loc.Lon, loc.City)
		}
		return fmt.Sprintf("\n\n用户的大致位置：纬度 %.4f，经度 %.4f。", loc.Lat, loc.Lon)
	}
	if loc.City != "" {
		return fmt.Sprintf("\n\nThe user's approximate location is latitude %.4f, longitude %.4f (%s).", loc.Lat, loc.Lon, loc.City)
	}
	return fmt.Sprintf("\n\nThe user's approximate location is latitude %.4f, longitude %.4f.", loc.Lat, loc.Lon)
}

func searchClause(zh bool, now time.Time, results string) string {
	if zh {
		return fmt.Sprintf(
			"\n\n今天的日期是%s。以下带编号的网络搜索结果与用户的问题相关：\n\n%s\n\n引用结果时请标注对应的编号，例如[1]。",
			formatDate(zh, now), results)
	}
	return fmt.Sprintf(
		"\n\nToday's date is %s. The following numbered web search results are current and relevant to the user's question:\n\n%s\n\nWhen you use a result, cite it by its bracket number, for example [1].",
		formatDate(zh, now), results)
}

func noResultsClause(zh bool, now time.Time) string {
	if zh {
		return fmt.Sprintf(
			"\n\n今天的日期是%s。已尝试进行网络搜索但没有获得结果，回答可能基于已过时的训练数据；请在必要时向用户说明这一点。",
			formatDate(zh, now))
	}
	return fmt.Sprintf(
		"\n\nToday's date is %s. A web search was attempted but returned no results; your answer may rely on training data that could be out of date, and you should say so where it matters.",
		formatDate(zh, now))
}

// formatDate renders the date long-form in the response language.
func formatDate(zh bool, now time.Time) string {
	if zh {
		return fmt.Sprintf("%d年%d月%d日", now.Year(), int(now.Month()), now.Day())
	}
	return now.Format("Monday, January 2, 2006")
}
