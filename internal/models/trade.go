package models

import "time"

// TradeRecord is a single labeled observation of a trade setup and its outcome.
type TradeRecord struct {
	ID         string     `json:"id" yaml:"id"`
	Strategy   string     `json:"strategy" yaml:"strategy"`
	Parameters Parameters `json:"parameters" yaml:"parameters"`
	Result     string     `json:"result" yaml:"result"`
	Comments   string     `json:"comments" yaml:"comments"`
	Timestamp  time.Time  `json:"timestamp" yaml:"timestamp"`
	Date       string     `json:"date" yaml:"date"` // display date derived from Timestamp
}
