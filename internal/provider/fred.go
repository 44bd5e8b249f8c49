package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"GoldWatch/internal/model"
)

// FRED series IDs for the authoritative correlation indicators.
const (
	SeriesUS10Y       = "DGS10"    // 10-Year Treasury Constant Maturity Rate
	SeriesUS2Y        = "DGS2"     // 2-Year Treasury Constant Maturity Rate
	SeriesUS30Y       = "DGS30"    // 30-Year Treasury Constant Maturity Rate
	SeriesDollarIndex = "DTWEXBGS" // Trade Weighted U.S. Dollar Index: Broad
	SeriesVIX         = "VIXCLS"   // CBOE Volatility Index
	SeriesUSDEUR      = "DEXUSEU"  // USD/EUR Exchange Rate
)

// missingValue is FRED's sentinel for an observation with no data.
const missingValue = "."

// FREDFetcher implements StatFetcher against the Federal Reserve Economic
// Data API.
type FREDFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	log     zerolog.Logger
}

// NewFREDFetcher creates a FRED client.
func NewFREDFetcher(baseURL, apiKey string, log zerolog.Logger) *FREDFetcher {
	return &FREDFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("component", "fred").Logger(),
	}
}

func (f *FREDFetcher) Name() string { return "fred" }

type fredObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

func (f *FREDFetcher) observations(ctx context.Context, seriesID string, limit int) ([]fredObservation, error) {
	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("api_key", f.APIKey)
	params.Set("file_type", "json")
	params.Set("sort_order", "desc")
	params.Set("limit", strconv.Itoa(limit))

	u := fmt.Sprintf("%s/series/observations?%s", f.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch series %s: %w", seriesID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("series %s: %w", seriesID, ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Source: f.Name(), Code: resp.StatusCode, Message: resp.Status}
	}

	var payload struct {
		Observations []fredObservation `json:"observations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode series %s: %w", seriesID, err)
	}
	return payload.Observations, nil
}

// SeriesLatest fetches the two most recent observations of a series and
// computes the change locally. Observations carrying the missing-value
// sentinel are unusable for the latest slot.
func (f *FREDFetcher) SeriesLatest(ctx context.Context, seriesID string) (*model.Reading, error) {
	obs, err := f.observations(ctx, seriesID, 2)
	if err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, &APIError{Source: f.Name(), Code: 0, Message: "no observations for series " + seriesID}
	}

	latest := obs[0]
	if latest.Value == missingValue {
		return nil, &APIError{Source: f.Name(), Code: 0, Message: "latest observation missing for series " + seriesID}
	}
	latestValue, err := strconv.ParseFloat(latest.Value, 64)
	if err != nil {
		return nil, fmt.Errorf("parse observation for %s: %w", seriesID, err)
	}

	reading := &model.Reading{
		Name:   seriesID,
		Price:  latestValue,
		Date:   latest.Date,
		Source: "FRED",
	}

	if len(obs) > 1 && obs[1].Value != missingValue {
		if prev, err := strconv.ParseFloat(obs[1].Value, 64); err == nil {
			reading.Previous = &prev
			reading.Change = latestValue - prev
			if prev != 0 {
				reading.PercentChange = reading.Change / prev * 100
			}
		}
	}
	return reading, nil
}

// SeriesHistory returns up to limit observations in chronological order,
// skipping missing values.
func (f *FREDFetcher) SeriesHistory(ctx context.Context, seriesID string, limit int) ([]Observation, error) {
	obs, err := f.observations(ctx, seriesID, limit)
	if err != nil {
		return nil, err
	}

	history := make([]Observation, 0, len(obs))
	for i := len(obs) - 1; i >= 0; i-- {
		if obs[i].Value == missingValue {
			continue
		}
		v, err := strconv.ParseFloat(obs[i].Value, 64)
		if err != nil {
			f.log.Debug().Str("series", seriesID).Str("value", obs[i].Value).Msg("skipping unparsable observation")
			continue
		}
		history = append(history, Observation{Date: obs[i].Date, Value: v})
	}
	return history, nil
}
