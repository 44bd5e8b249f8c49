package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"GoldWatch/internal/model"
)

// TwelveDataFetcher implements PriceFetcher against the Twelve Data REST
// API.
type TwelveDataFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	log     zerolog.Logger
}

// NewTwelveDataFetcher creates a fetcher with a request timeout suited to
// the free tier.
func NewTwelveDataFetcher(baseURL, apiKey string, log zerolog.Logger) *TwelveDataFetcher {
	return &TwelveDataFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("component", "twelvedata").Logger(),
	}
}

func (f *TwelveDataFetcher) Name() string { return "twelvedata" }

// apiNumber tolerates the API quoting numeric fields as strings.
type apiNumber float64

func (n *apiNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = apiNumber(v)
	return nil
}

type tdBar struct {
	Datetime string    `json:"datetime"`
	Open     apiNumber `json:"open"`
	High     apiNumber `json:"high"`
	Low      apiNumber `json:"low"`
	Close    apiNumber `json:"close"`
	Volume   apiNumber `json:"volume"`
}

type tdQuote struct {
	Symbol        string    `json:"symbol"`
	Price         apiNumber `json:"price"`
	Close         apiNumber `json:"close"`
	Change        apiNumber `json:"change"`
	PercentChange apiNumber `json:"percent_change"`
	Timestamp     int64     `json:"timestamp"`
}

func (q *tdQuote) toModel() model.Quote {
	price := float64(q.Price)
	if price == 0 {
		price = float64(q.Close)
	}
	asOf := time.Time{}
	if q.Timestamp > 0 {
		asOf = time.Unix(q.Timestamp, 0).UTC()
	}
	return model.Quote{
		Symbol:        q.Symbol,
		Price:         price,
		Change:        float64(q.Change),
		PercentChange: float64(q.PercentChange),
		AsOf:          asOf,
	}
}

// tdStatus is the error envelope the API embeds in a 200 response.
type tdStatus struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (f *TwelveDataFetcher) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	params.Set("apikey", f.APIKey)
	u := fmt.Sprintf("%s/%s?%s", f.BaseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%s: %w", endpoint, ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Source: f.Name(), Code: resp.StatusCode, Message: resp.Status}
	}

	var buf json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&buf); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	// The API reports errors inside a 200 body.
	var status tdStatus
	if err := json.Unmarshal(buf, &status); err == nil && status.Status == "error" {
		if status.Code == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%s: %w", endpoint, ErrRateLimited)
		}
		return nil, &APIError{Source: f.Name(), Code: status.Code, Message: status.Message}
	}
	return buf, nil
}

// TimeSeries fetches candles for one (symbol, interval). Malformed rows
// are skipped; the result is ascending by time with duplicates removed.
func (f *TwelveDataFetcher) TimeSeries(ctx context.Context, symbol, interval string, outputSize int) (*model.PriceSeries, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("outputsize", strconv.Itoa(outputSize))
	params.Set("format", "JSON")

	body, err := f.get(ctx, "time_series", params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Values []tdBar `json:"values"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse time series for %s: %w", symbol, err)
	}
	if payload.Values == nil {
		return nil, &APIError{Source: f.Name(), Code: 0, Message: "no values in time series response"}
	}

	candles := make([]model.Candle, 0, len(payload.Values))
	for _, bar := range payload.Values {
		ts, err := parseBarTime(bar.Datetime)
		if err != nil {
			f.log.Debug().Str("symbol", symbol).Str("datetime", bar.Datetime).Msg("skipping malformed bar")
			continue
		}
		candles = append(candles, model.Candle{
			Time:   ts,
			Open:   float64(bar.Open),
			High:   float64(bar.High),
			Low:    float64(bar.Low),
			Close:  float64(bar.Close),
			Volume: float64(bar.Volume),
		})
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	candles = dedupeByTime(candles)

	return &model.PriceSeries{Symbol: symbol, Interval: interval, Candles: candles}, nil
}

// Quote fetches quotes for one or more symbols in a single call. A batch
// of size one may come back as a bare record; both shapes are folded into
// the QuoteBook union.
func (f *TwelveDataFetcher) Quote(ctx context.Context, symbols ...string) (*model.QuoteBook, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("quote: no symbols given")
	}
	params := url.Values{}
	params.Set("symbol", strings.Join(symbols, ","))

	body, err := f.get(ctx, "quote", params)
	if err != nil {
		return nil, err
	}

	// A single-symbol response carries "symbol" as a top-level string; a
	// batch response keys every value by symbol.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("parse quote response: %w", err)
	}
	if raw, ok := probe["symbol"]; ok {
		var sym string
		if json.Unmarshal(raw, &sym) == nil {
			var q tdQuote
			if err := json.Unmarshal(body, &q); err != nil {
				return nil, fmt.Errorf("parse single quote: %w", err)
			}
			single := q.toModel()
			return &model.QuoteBook{Single: &single}, nil
		}
	}

	batch := make(map[string]model.Quote, len(probe))
	for sym, raw := range probe {
		var q tdQuote
		if err := json.Unmarshal(raw, &q); err != nil {
			f.log.Debug().Str("symbol", sym).Msg("skipping malformed batch quote entry")
			continue
		}
		if q.Symbol == "" {
			q.Symbol = sym
		}
		batch[sym] = q.toModel()
	}
	if len(batch) == 0 {
		return nil, &APIError{Source: f.Name(), Code: 0, Message: "empty quote batch"}
	}
	return &model.QuoteBook{Batch: batch}, nil
}

func parseBarTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized bar time %q", s)
}

func dedupeByTime(candles []model.Candle) []model.Candle {
	out := candles[:0]
	for _, c := range candles {
		if n := len(out); n > 0 && c.Time.Equal(out[n-1].Time) {
			continue
		}
		out = append(out, c)
	}
	return out
}
