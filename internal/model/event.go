package model

import "time"

// Impact is the announced market impact of an economic event.
type Impact string

const (
	ImpactLow    Impact = "Low"
	ImpactMedium Impact = "Medium"
	ImpactHigh   Impact = "High"
)

// EconomicEvent is one scheduled calendar entry. Lists of events are
// always ordered ascending by Time.
type EconomicEvent struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Impact      Impact    `json:"impact"`
	Time        time.Time `json:"time"`
	Currency    string    `json:"currency"`
}
