// Package provider contains the adapters for the three external data
// sources: the price/quote API, the economic-statistics API, and the
// event calendar. Adapters normalize payloads into internal/model types;
// callers above the cache never see raw response shapes.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"GoldWatch/internal/model"
)

// ErrRateLimited is returned when a provider signals that the call quota
// is exhausted. The orchestrator pauses for the configured cooldown and
// retries exactly once.
var ErrRateLimited = errors.New("rate limited")

// APIError is a well-formed error payload from a provider.
type APIError struct {
	Source  string
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (code %d): %s", e.Source, e.Code, e.Message)
}

// PriceFetcher fetches candles and live quotes for tradable instruments.
type PriceFetcher interface {
	// TimeSeries returns candles ascending by time with duplicate
	// timestamps removed.
	TimeSeries(ctx context.Context, symbol, interval string, outputSize int) (*model.PriceSeries, error)
	// Quote fetches one or more symbols in a single request. The response
	// shape (bare record vs symbol-keyed map) is resolved into the
	// QuoteBook union here.
	Quote(ctx context.Context, symbols ...string) (*model.QuoteBook, error)
	Name() string
}

// Observation is one dated point of an economic series.
type Observation struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// StatFetcher fetches authoritative economic series.
type StatFetcher interface {
	// SeriesLatest returns the newest observation of a series with the
	// change against the prior observation computed locally.
	SeriesLatest(ctx context.Context, seriesID string) (*model.Reading, error)
	// SeriesHistory returns up to limit observations in chronological
	// order, missing values skipped.
	SeriesHistory(ctx context.Context, seriesID string, limit int) ([]Observation, error)
	Name() string
}

// EventSource supplies upcoming high-impact calendar events, sorted by
// time ascending. How events are sourced (feed, scrape, synthesized) is
// the adapter's own business.
type EventSource interface {
	Upcoming(ctx context.Context, horizon time.Duration) ([]model.EconomicEvent, error)
	Name() string
}
