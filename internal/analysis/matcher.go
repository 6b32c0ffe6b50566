// Package analysis answers questions over the trade records: which past
// trades share an exact parameter vector, and how outcomes distribute across
// patterns.
package analysis

import (
	"context"
	"strings"
	"time"

	"trade-checker-go/internal/models"
)

// RecordSource provides the full record list in insertion order.
// *journal.Store satisfies it.
type RecordSource interface {
	GetAll(ctx context.Context) []models.TradeRecord
}

// Comment is a non-empty comment of a matched trade, tagged with its date.
type Comment struct {
	Comment   string    `json:"comment"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

// ResultGroup collects the matched trades that share one result label.
type ResultGroup struct {
	Result   string    `json:"result"`
	Count    int       `json:"count"`
	Comments []Comment `json:"comments"`
	Dates    []string  `json:"dates"`
}

// MatchReport is the outcome of a historical lookup.
type MatchReport struct {
	Matches          []ResultGroup `json:"matches"`
	TotalOccurrences int           `json:"totalOccurrences"`
}

// FindHistoricalMatches looks up the records of strategy whose parameter
// vector equals query.
func FindHistoricalMatches(ctx context.Context, src RecordSource, strategy string, query models.Parameters) MatchReport {
	return MatchRecords(src.GetAll(ctx), strategy, query)
}

// MatchRecords scans records for exact strategy and parameter matches and
// groups them by literal result label, in order of first appearance.
func MatchRecords(records []models.TradeRecord, strategy string, query models.Parameters) MatchReport {
	report := MatchReport{Matches: []ResultGroup{}}
	index := make(map[string]int)

	for _, r := range records {
		if r.Strategy != strategy || r.Parameters != query {
			continue
		}
		report.TotalOccurrences++

		i, ok := index[r.Result]
		if !ok {
			i = len(report.Matches)
			index[r.Result] = i
			report.Matches = append(report.Matches, ResultGroup{
				Result:   r.Result,
				Comments: []Comment{},
				Dates:    []string{},
			})
		}
		g := &report.Matches[i]
		g.Count++
		if c := strings.TrimSpace(r.Comments); c != "" {
			g.Comments = append(g.Comments, Comment{Comment: c, Date: r.Date, Timestamp: r.Timestamp})
		}
		g.Dates = append(g.Dates, r.Date)
	}
	return report
}

// Outcomes summarizes the report into win/loss/other counts and rates.
func (r MatchReport) Outcomes() OutcomeSummary {
	counts := make(map[string]int, len(r.Matches))
	for _, g := range r.Matches {
		counts[g.Result] += g.Count
	}
	return SummarizeOutcomes(counts)
}
