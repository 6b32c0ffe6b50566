package analysis

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Outcome is the coarse class of a free-form result label.
type Outcome int

const (
	OutcomeOther Outcome = iota
	OutcomeWin
	OutcomeLoss
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	default:
		return "other"
	}
}

// ClassifyResult maps a result label to an Outcome by case-insensitive
// substring: "Partial Win" is a win, "Break Even" is other. Grouping never
// uses this; it only drives rates and colouring.
func ClassifyResult(result string) Outcome {
	lower := strings.ToLower(result)
	switch {
	case strings.Contains(lower, "win"):
		return OutcomeWin
	case strings.Contains(lower, "loss"):
		return OutcomeLoss
	default:
		return OutcomeOther
	}
}

// OutcomeSummary holds counts and percentages rounded to one decimal place.
type OutcomeSummary struct {
	Wins      int             `json:"wins"`
	Losses    int             `json:"losses"`
	Others    int             `json:"others"`
	Total     int             `json:"total"`
	WinRate   decimal.Decimal `json:"winRate"`
	LossRate  decimal.Decimal `json:"lossRate"`
	OtherRate decimal.Decimal `json:"otherRate"`
}

// SummarizeOutcomes classifies per-result counts.
func SummarizeOutcomes(results map[string]int) OutcomeSummary {
	var s OutcomeSummary
	for result, n := range results {
		s.Total += n
		switch ClassifyResult(result) {
		case OutcomeWin:
			s.Wins += n
		case OutcomeLoss:
			s.Losses += n
		default:
			s.Others += n
		}
	}
	s.WinRate = Percent(s.Wins, s.Total)
	s.LossRate = Percent(s.Losses, s.Total)
	s.OtherRate = Percent(s.Others, s.Total)
	return s
}

// Percent returns n/total as a percentage with one decimal place; zero when
// total is zero.
func Percent(n, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(n)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(1)
}
