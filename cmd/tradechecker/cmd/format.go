package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"trade-checker-go/internal/analysis"
	"trade-checker-go/internal/models"
	"trade-checker-go/internal/schema"
	"trade-checker-go/internal/service"
)

func printMatchReport(w io.Writer, strategy string, p models.Parameters, report analysis.MatchReport) {
	fmt.Fprintf(w, "Historical Analysis Results for %s [%s]\n\n", strategy, schema.Format(p))

	if report.TotalOccurrences == 0 {
		fmt.Fprintln(w, "No historical trades found with this exact parameter combination.")
		return
	}

	fmt.Fprintf(w, "Total Historical Occurrences: %d\n", report.TotalOccurrences)
	fmt.Fprintf(w, "Unique Result Types: %d\n\n", len(report.Matches))

	for _, m := range report.Matches {
		fmt.Fprintf(w, "%s: %d %s (%s%%)\n", m.Result, m.Count, plural(m.Count, "occurrence"),
			analysis.Percent(m.Count, report.TotalOccurrences).StringFixed(1))
		fmt.Fprintf(w, "  Dates: %s\n", strings.Join(m.Dates, ", "))
		for _, c := range m.Comments {
			fmt.Fprintf(w, "  - %s (%s)\n", c.Comment, c.Date)
		}
	}

	o := report.Outcomes()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Win Rate:  %s%% (%d/%d)\n", o.WinRate.StringFixed(1), o.Wins, o.Total)
	fmt.Fprintf(w, "Loss Rate: %s%% (%d/%d)\n", o.LossRate.StringFixed(1), o.Losses, o.Total)
	if o.Others > 0 {
		fmt.Fprintf(w, "Other Results: %s%% (%d/%d)\n", o.OtherRate.StringFixed(1), o.Others, o.Total)
	}
}

func printTrades(w io.Writer, trades []models.TradeRecord) {
	if len(trades) == 0 {
		fmt.Fprintln(w, "No trades recorded yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tSTRATEGY\tPARAMETERS\tRESULT\tCOMMENTS")
	for _, t := range trades {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Date, t.Strategy, schema.Format(t.Parameters), t.Result, oneLine(t.Comments))
	}
	tw.Flush()
}

func printPatternGroups(w io.Writer, groups []analysis.PatternGroup, verbose bool) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No Historical Data Found")
		fmt.Fprintln(w, "Start recording trades to build your historical database.")
		return
	}

	for i, g := range groups {
		fmt.Fprintf(w, "#%d [%s] %s: %d %s, win rate %s%%\n", i+1, schema.Format(g.Parameters), g.Strategy,
			g.TotalOccurrences, plural(g.TotalOccurrences, "trade"), g.WinRate().StringFixed(1))
		fmt.Fprintf(w, "  Results: %s\n", formatCounts(g.ResultOrder, g.Results))
		if g.FirstSeen == g.LastSeen {
			fmt.Fprintf(w, "  Seen: %s\n", g.FirstSeen)
		} else {
			fmt.Fprintf(w, "  Seen: %s - %s\n", g.FirstSeen, g.LastSeen)
		}
		if !verbose {
			continue
		}
		fmt.Fprintf(w, "  %s\n", schema.Summary(g.Parameters))
		for _, t := range g.TradesNewestFirst() {
			fmt.Fprintf(w, "  - %s %s %s", t.Date, t.Result, t.ID)
			if c := oneLine(t.Comments); c != "" {
				fmt.Fprintf(w, ": %s", c)
			}
			fmt.Fprintln(w)
		}
	}
}

func printStatistics(w io.Writer, strategy string, stats analysis.Statistics) {
	scope := strategy
	if scope == "" {
		scope = "All Strategies"
	}
	fmt.Fprintf(w, "Summary Statistics (%s)\n\n", scope)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total Trades:\t%d\n", stats.TotalTrades)
	fmt.Fprintf(tw, "Unique Patterns:\t%d\n", stats.UniqueParameterCombinations)
	if stats.TotalTrades > 0 {
		fmt.Fprintf(tw, "Date Range:\t%s - %s\n", stats.DateRange.First, stats.DateRange.Last)
	}
	fmt.Fprintf(tw, "Overall Win Rate:\t%s%%\n", stats.WinRate().StringFixed(1))
	fmt.Fprintf(tw, "Results Breakdown:\t%s\n", formatCounts(stats.ResultOrder, stats.Results))
	fmt.Fprintf(tw, "Known Strategies:\t%s\n", strings.Join(stats.Strategies, ", "))
	tw.Flush()
}

func printSchema(w io.Writer, info service.SchemaInfo) {
	for _, g := range info.Groups {
		fmt.Fprintln(w, g.Title)
		for _, d := range g.Parameters {
			fmt.Fprintf(w, "  %s\n      %s\n", d.Label, d.Description)
		}
	}
}

func printStrategies(w io.Writer, s strategyList) {
	fmt.Fprintf(w, "Configured strategies: %s\n", strings.Join(s.Configured, ", "))
	if len(s.Recorded) > 0 {
		fmt.Fprintf(w, "Strategies in history: %s\n", strings.Join(s.Recorded, ", "))
	}
	fmt.Fprintf(w, "Result options:        %s\n", strings.Join(s.Results, ", "))
}

func formatCounts(order []string, counts map[string]int) string {
	if len(order) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(order))
	for _, k := range order {
		parts = append(parts, fmt.Sprintf("%s: %d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
