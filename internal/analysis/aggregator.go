package analysis

import (
	"cmp"
	"context"
	"slices"
	"time"

	"trade-checker-go/internal/journal"
	"trade-checker-go/internal/models"

	"github.com/shopspring/decimal"
)

// PatternGroup is every record sharing one exact parameter vector.
type PatternGroup struct {
	Key              string               `json:"key"`
	Parameters       models.Parameters    `json:"parameters"`
	Strategy         string               `json:"strategy"`
	Trades           []models.TradeRecord `json:"trades"`
	TotalOccurrences int                  `json:"totalOccurrences"`
	Results          map[string]int       `json:"results"`
	ResultOrder      []string             `json:"resultOrder"`
	FirstSeen        string               `json:"firstSeen"`
	LastSeen         string               `json:"lastSeen"`
	FirstSeenAt      time.Time            `json:"firstSeenAt"`
	LastSeenAt       time.Time            `json:"lastSeenAt"`
}

// WinRate is the percentage of member trades whose result reads as a win.
func (g PatternGroup) WinRate() decimal.Decimal {
	return SummarizeOutcomes(g.Results).WinRate
}

// TradesNewestFirst returns the member trades sorted by timestamp, latest first.
func (g PatternGroup) TradesNewestFirst() []models.TradeRecord {
	out := slices.Clone(g.Trades)
	slices.SortStableFunc(out, func(a, b models.TradeRecord) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out
}

// HistoricalDataGrouped groups the records of strategy (all records when
// strategy is empty) by exact parameter vector.
func HistoricalDataGrouped(ctx context.Context, src RecordSource, strategy string) []PatternGroup {
	return GroupByPattern(journal.FilterByStrategy(src.GetAll(ctx), strategy))
}

// GroupByPattern groups records by parameter vector and orders the groups by
// occurrence count, most frequent first. Equal counts keep encounter order.
func GroupByPattern(records []models.TradeRecord) []PatternGroup {
	groups := []PatternGroup{}
	index := make(map[string]int)

	for _, r := range records {
		key := r.Parameters.Key()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, PatternGroup{
				Key:         key,
				Parameters:  r.Parameters,
				Strategy:    r.Strategy,
				Trades:      []models.TradeRecord{},
				Results:     make(map[string]int),
				ResultOrder: []string{},
				FirstSeen:   r.Date,
				LastSeen:    r.Date,
				FirstSeenAt: r.Timestamp,
				LastSeenAt:  r.Timestamp,
			})
		}

		g := &groups[i]
		g.Trades = append(g.Trades, r)
		g.TotalOccurrences++
		if _, seen := g.Results[r.Result]; !seen {
			g.ResultOrder = append(g.ResultOrder, r.Result)
		}
		g.Results[r.Result]++

		if r.Timestamp.Before(g.FirstSeenAt) {
			g.FirstSeenAt, g.FirstSeen = r.Timestamp, r.Date
		}
		if r.Timestamp.After(g.LastSeenAt) {
			g.LastSeenAt, g.LastSeen = r.Timestamp, r.Date
		}
	}

	slices.SortStableFunc(groups, func(a, b PatternGroup) int {
		return cmp.Compare(b.TotalOccurrences, a.TotalOccurrences)
	})
	return groups
}

// DateRange spans the earliest and latest trade in scope. Empty when there
// are no trades.
type DateRange struct {
	First   string     `json:"first"`
	Last    string     `json:"last"`
	FirstAt *time.Time `json:"firstAt,omitempty"`
	LastAt  *time.Time `json:"lastAt,omitempty"`
}

// Statistics summarizes the records in scope.
type Statistics struct {
	TotalTrades                 int            `json:"totalTrades"`
	Strategies                  []string       `json:"strategies"`
	Results                     map[string]int `json:"results"`
	ResultOrder                 []string       `json:"resultOrder"`
	UniqueParameterCombinations int            `json:"uniqueParameterCombinations"`
	DateRange                   DateRange      `json:"dateRange"`
}

// WinRate is the percentage of trades in scope whose result reads as a win.
func (s Statistics) WinRate() decimal.Decimal {
	return SummarizeOutcomes(s.Results).WinRate
}

// GetStatistics computes Statistics for strategy (every record when empty).
func GetStatistics(ctx context.Context, src RecordSource, strategy string) Statistics {
	return Summarize(src.GetAll(ctx), strategy)
}

// Summarize computes statistics over the records of strategy. The strategy
// list always covers the whole of all so a selector can offer every known
// strategy.
func Summarize(all []models.TradeRecord, strategy string) Statistics {
	stats := Statistics{
		Strategies:  []string{},
		Results:     make(map[string]int),
		ResultOrder: []string{},
	}

	known := make(map[string]struct{})
	for _, r := range all {
		if _, ok := known[r.Strategy]; !ok {
			known[r.Strategy] = struct{}{}
			stats.Strategies = append(stats.Strategies, r.Strategy)
		}
	}

	scope := journal.FilterByStrategy(all, strategy)
	stats.TotalTrades = len(scope)

	patterns := make(map[string]struct{})
	var first, last *models.TradeRecord
	for i := range scope {
		r := &scope[i]
		if _, ok := stats.Results[r.Result]; !ok {
			stats.ResultOrder = append(stats.ResultOrder, r.Result)
		}
		stats.Results[r.Result]++
		patterns[r.Parameters.Key()] = struct{}{}

		if first == nil || r.Timestamp.Before(first.Timestamp) {
			first = r
		}
		if last == nil || r.Timestamp.After(last.Timestamp) {
			last = r
		}
	}
	stats.UniqueParameterCombinations = len(patterns)

	if first != nil {
		firstAt, lastAt := first.Timestamp, last.Timestamp
		stats.DateRange = DateRange{
			First:   first.Date,
			Last:    last.Date,
			FirstAt: &firstAt,
			LastAt:  &lastAt,
		}
	}
	return stats
}
