package provider

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"GoldWatch/internal/model"
)

// highImpactKeywords marks calendar entries that historically move gold.
var highImpactKeywords = []string{
	"NFP", "NON-FARM PAYROLL", "CPI", "CONSUMER PRICE INDEX",
	"FOMC", "FEDERAL RESERVE", "FED", "INTEREST RATE",
	"GDP", "EMPLOYMENT", "INFLATION", "POWELL",
}

var knownCurrencies = []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF", "NZD"}

// CalendarSource implements EventSource on top of an economic-calendar
// RSS feed. When the feed yields nothing usable it can synthesize a small
// set of recurring high-impact USD events so downstream consumers always
// see a populated calendar.
type CalendarSource struct {
	FeedURL       string
	SampleOnEmpty bool
	Client        *http.Client
	log           zerolog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewCalendarSource creates a calendar adapter.
func NewCalendarSource(feedURL string, sampleOnEmpty bool, log zerolog.Logger) *CalendarSource {
	return &CalendarSource{
		FeedURL:       feedURL,
		SampleOnEmpty: sampleOnEmpty,
		Client:        &http.Client{Timeout: 10 * time.Second},
		log:           log.With().Str("component", "calendar").Logger(),
		now:           time.Now,
	}
}

func (c *CalendarSource) Name() string { return "calendar" }

type rssItem struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

type rssFeed struct {
	Items []rssItem `xml:"channel>item"`
}

// Upcoming returns high-impact events within horizon, sorted ascending by
// time. The list may be empty; an error means the feed itself failed and
// no fallback was configured.
func (c *CalendarSource) Upcoming(ctx context.Context, horizon time.Duration) ([]model.EconomicEvent, error) {
	events, err := c.fromFeed(ctx, horizon)
	if err != nil {
		c.log.Warn().Err(err).Msg("calendar feed failed")
	}
	if len(events) == 0 && c.SampleOnEmpty {
		events = c.sampleEvents(horizon)
	}
	if events == nil && err != nil {
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Time.Before(events[j].Time) })
	return events, nil
}

func (c *CalendarSource) fromFeed(ctx context.Context, horizon time.Duration) ([]model.EconomicEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FeedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; GoldWatch/1.0)")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Source: c.Name(), Code: resp.StatusCode, Message: resp.Status}
	}

	var feed rssFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parse calendar feed: %w", err)
	}

	now := c.now().UTC()
	cutoff := now.Add(horizon)
	var events []model.EconomicEvent
	for _, item := range feed.Items {
		ev := c.parseItem(item, now)
		if ev.Impact != model.ImpactHigh {
			continue
		}
		if ev.Time.Before(now) || ev.Time.After(cutoff) {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func (c *CalendarSource) parseItem(item rssItem, now time.Time) model.EconomicEvent {
	impact := model.ImpactMedium
	upper := strings.ToUpper(item.Title)
	for _, kw := range highImpactKeywords {
		if strings.Contains(upper, kw) {
			impact = model.ImpactHigh
			break
		}
	}

	eventTime := now.Add(time.Hour)
	if item.PubDate != "" {
		for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC822Z} {
			if ts, err := time.Parse(layout, item.PubDate); err == nil {
				eventTime = ts.UTC()
				break
			}
		}
	}

	return model.EconomicEvent{
		Title:       item.Title,
		Description: item.Description,
		Impact:      impact,
		Time:        eventTime,
		Currency:    extractCurrency(item.Title),
	}
}

// sampleEvents synthesizes recurring high-impact USD releases so the
// dashboard stays populated when the feed is unreachable.
func (c *CalendarSource) sampleEvents(horizon time.Duration) []model.EconomicEvent {
	now := c.now().UTC()
	samples := []model.EconomicEvent{
		{
			Title:       "US Non-Farm Payrolls (NFP)",
			Description: "Monthly employment report - High impact on USD",
			Impact:      model.ImpactHigh,
			Time:        now.Add(3*time.Hour + 30*time.Minute),
			Currency:    "USD",
		},
		{
			Title:       "US Consumer Price Index (CPI)",
			Description: "Inflation data - High impact on USD and gold",
			Impact:      model.ImpactHigh,
			Time:        now.Add(8*time.Hour + 15*time.Minute),
			Currency:    "USD",
		},
		{
			Title:       "FOMC Meeting Minutes",
			Description: "Federal Reserve policy meeting - High impact",
			Impact:      model.ImpactHigh,
			Time:        now.Add(14 * time.Hour),
			Currency:    "USD",
		},
		{
			Title:       "US Retail Sales",
			Description: "Consumer spending data - High impact",
			Impact:      model.ImpactHigh,
			Time:        now.Add(20*time.Hour + 30*time.Minute),
			Currency:    "USD",
		},
	}

	cutoff := now.Add(horizon)
	var upcoming []model.EconomicEvent
	for _, ev := range samples {
		if !ev.Time.Before(now) && !ev.Time.After(cutoff) {
			upcoming = append(upcoming, ev)
		}
	}
	// Guarantee at least one event inside the window.
	if len(upcoming) == 0 {
		first := samples[0]
		first.Time = now.Add(minDuration(2*time.Hour, horizon-time.Minute))
		upcoming = append(upcoming, first)
	}
	return upcoming
}

func extractCurrency(title string) string {
	upper := strings.ToUpper(title)
	for _, cur := range knownCurrencies {
		if strings.Contains(upper, cur) {
			return cur
		}
	}
	return "USD"
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
