// Package collector implements the fetch orchestrator: it produces one
// best-effort input bundle per cycle by running the three top-level fetch
// groups (primary instrument, correlation basket, calendar events)
// concurrently, each under its own deadline, with every provider call
// routed through the TTL cache.
package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"GoldWatch/internal/cache"
	"GoldWatch/internal/config"
	"GoldWatch/internal/metrics"
	"GoldWatch/internal/model"
	"GoldWatch/internal/provider"
)

// fredSingles lists the authoritative indicators fetched individually
// from the statistics provider, in fetch order.
var fredSingles = []struct {
	Name     string
	SeriesID string
}{
	{"US10Y", provider.SeriesUS10Y},
	{"US2Y", provider.SeriesUS2Y},
	{"US30Y", provider.SeriesUS30Y},
	{"DXY", provider.SeriesDollarIndex},
	{"VIX", provider.SeriesVIX},
	{"USD/EUR", provider.SeriesUSDEUR},
}

// PrimaryData is Group A's result: the live quote plus one series per
// configured interval. Missing pieces stay nil/absent.
type PrimaryData struct {
	Quote  *model.Quote
	Series map[string]*model.PriceSeries
}

// Bundle is the composite result of one orchestration cycle. Failed or
// timed-out groups leave their documented empty defaults.
type Bundle struct {
	Primary      PrimaryData
	Correlations map[string]model.Reading
	Events       []model.EconomicEvent
	Timestamp    time.Time
}

// Collector orchestrates cached fetching across the three providers.
type Collector struct {
	symbol       string
	intervals    []string
	outputSize   int
	correlations map[string]string

	quoteTTL       time.Duration
	priceTTL       time.Duration
	correlationTTL time.Duration
	newsTTL        time.Duration

	primaryTimeout     time.Duration
	correlationTimeout time.Duration
	eventsTimeout      time.Duration

	interCallDelay time.Duration
	cooldown       time.Duration
	horizon        time.Duration

	store  *cache.Store
	price  provider.PriceFetcher
	stats  provider.StatFetcher
	events provider.EventSource
	log    zerolog.Logger
}

// New wires a collector from configuration and the provider adapters.
func New(cfg *config.Config, store *cache.Store, price provider.PriceFetcher, stats provider.StatFetcher, events provider.EventSource, log zerolog.Logger) *Collector {
	return &Collector{
		symbol:             cfg.Symbol,
		intervals:          cfg.PriceSource.Intervals,
		outputSize:         cfg.PriceSource.OutputSize,
		correlations:       cfg.Correlations,
		quoteTTL:           cfg.QuoteTTL(),
		priceTTL:           cfg.PriceDataTTL(),
		correlationTTL:     cfg.CorrelationTTL(),
		newsTTL:            cfg.NewsTTL(),
		primaryTimeout:     cfg.PrimaryTimeout(),
		correlationTimeout: cfg.CorrelationTimeout(),
		eventsTimeout:      cfg.EventsTimeout(),
		interCallDelay:     cfg.InterCallDelay(),
		cooldown:           cfg.RateLimitCooldown(),
		horizon:            cfg.EventHorizon(),
		store:              store,
		price:              price,
		stats:              stats,
		events:             events,
		log:                log.With().Str("component", "collector").Logger(),
	}
}

// Snapshot runs the three fetch groups concurrently and assembles the
// composite bundle. A group that fails or exceeds its deadline
// contributes its empty default; its in-flight call finishes in the
// background and is ignored.
func (c *Collector) Snapshot(ctx context.Context) *Bundle {
	primaryCh := make(chan PrimaryData, 1)
	correlationCh := make(chan map[string]model.Reading, 1)
	eventsCh := make(chan []model.EconomicEvent, 1)

	go func() {
		gctx, cancel := context.WithTimeout(ctx, c.primaryTimeout)
		defer cancel()
		primaryCh <- c.collectPrimary(gctx)
	}()
	go func() {
		gctx, cancel := context.WithTimeout(ctx, c.correlationTimeout)
		defer cancel()
		correlationCh <- c.collectCorrelations(gctx)
	}()
	go func() {
		gctx, cancel := context.WithTimeout(ctx, c.eventsTimeout)
		defer cancel()
		eventsCh <- c.collectEvents(gctx)
	}()

	bundle := &Bundle{
		Primary:      PrimaryData{Series: map[string]*model.PriceSeries{}},
		Correlations: map[string]model.Reading{},
		Timestamp:    time.Now().UTC(),
	}

	select {
	case p := <-primaryCh:
		bundle.Primary = p
	case <-time.After(c.primaryTimeout + time.Second):
		metrics.GroupTimeouts.WithLabelValues("primary").Inc()
		c.log.Warn().Msg("primary fetch group abandoned at deadline")
	}
	select {
	case corr := <-correlationCh:
		bundle.Correlations = corr
	case <-time.After(c.correlationTimeout + time.Second):
		metrics.GroupTimeouts.WithLabelValues("correlation").Inc()
		c.log.Warn().Msg("correlation fetch group abandoned at deadline")
	}
	select {
	case ev := <-eventsCh:
		bundle.Events = ev
	case <-time.After(c.eventsTimeout + time.Second):
		metrics.GroupTimeouts.WithLabelValues("events").Inc()
		c.log.Warn().Msg("events fetch group abandoned at deadline")
	}

	return bundle
}

// collectPrimary fetches the live quote, then the price history for each
// configured interval sequentially. The sequence exists only because the
// upstream provider enforces a calls-per-minute quota: before any
// actually-uncached series request the collector waits the configured
// inter-call delay.
func (c *Collector) collectPrimary(ctx context.Context) PrimaryData {
	out := PrimaryData{Series: make(map[string]*model.PriceSeries, len(c.intervals))}

	quoteKey := "quote_" + c.symbol
	if v := c.store.GetOrFetch(quoteKey, c.quoteTTL, func() (any, error) {
		return c.fetchQuote(ctx)
	}); v != nil {
		out.Quote = v.(*model.Quote)
	}

	for _, interval := range c.intervals {
		key := fmt.Sprintf("price_%s_%s", c.symbol, interval)
		if !c.store.Has(key) {
			if !sleepCtx(ctx, c.interCallDelay) {
				return out
			}
		}
		v := c.store.GetOrFetch(key, c.priceTTL, func() (any, error) {
			return c.fetchSeries(ctx, interval)
		})
		if series, ok := v.(*model.PriceSeries); ok && series.Len() > 0 {
			out.Series[interval] = series
		}
	}
	return out
}

func (c *Collector) fetchQuote(ctx context.Context) (*model.Quote, error) {
	book, err := withRateRetry(ctx, c, func() (*model.QuoteBook, error) {
		return c.price.Quote(ctx, c.symbol)
	})
	if err != nil {
		metrics.FetchErrors.WithLabelValues(c.price.Name()).Inc()
		return nil, err
	}
	q, ok := book.Lookup(c.symbol)
	if !ok {
		return nil, fmt.Errorf("quote response missing %s", c.symbol)
	}
	return &q, nil
}

func (c *Collector) fetchSeries(ctx context.Context, interval string) (*model.PriceSeries, error) {
	series, err := withRateRetry(ctx, c, func() (*model.PriceSeries, error) {
		return c.price.TimeSeries(ctx, c.symbol, interval, c.outputSize)
	})
	if err != nil {
		metrics.FetchErrors.WithLabelValues(c.price.Name()).Inc()
		return nil, err
	}
	return series, nil
}

// collectCorrelations fetches the authoritative indicators individually,
// then the tradable basket in one batched request keyed by the
// de-duplicated sorted symbol list.
func (c *Collector) collectCorrelations(ctx context.Context) map[string]model.Reading {
	out := make(map[string]model.Reading)

	for _, s := range fredSingles {
		seriesID := s.SeriesID
		v := c.store.GetOrFetch("fred_"+seriesID, c.correlationTTL, func() (any, error) {
			r, err := c.stats.SeriesLatest(ctx, seriesID)
			if err != nil {
				metrics.FetchErrors.WithLabelValues(c.stats.Name()).Inc()
				return nil, err
			}
			return r, nil
		})
		if r, ok := v.(*model.Reading); ok {
			out[s.Name] = *r
		}
	}

	symbols := batchSymbols(c.correlations)
	if len(symbols) == 0 {
		return out
	}
	batchKey := "quotes_batch_" + strings.Join(symbols, ",")
	v := c.store.GetOrFetch(batchKey, c.correlationTTL, func() (any, error) {
		book, err := withRateRetry(ctx, c, func() (*model.QuoteBook, error) {
			return c.price.Quote(ctx, symbols...)
		})
		if err != nil {
			metrics.FetchErrors.WithLabelValues(c.price.Name()).Inc()
			return nil, err
		}
		return book, nil
	})
	if book, ok := v.(*model.QuoteBook); ok {
		for name, symbol := range c.correlations {
			if q, found := book.Lookup(symbol); found {
				out[name] = model.ReadingFromQuote(name, q, c.price.Name())
			}
		}
	}
	return out
}

// collectEvents fetches the upcoming high-impact calendar, long TTL since
// the schedule changes slowly.
func (c *Collector) collectEvents(ctx context.Context) []model.EconomicEvent {
	v := c.store.GetOrFetch("news_events", c.newsTTL, func() (any, error) {
		events, err := c.events.Upcoming(ctx, c.horizon)
		if err != nil {
			metrics.FetchErrors.WithLabelValues(c.events.Name()).Inc()
			return nil, err
		}
		return events, nil
	})
	if events, ok := v.([]model.EconomicEvent); ok {
		return events
	}
	return nil
}

// withRateRetry runs fn once; on a rate-limit signal it pauses for the
// configured cooldown and retries exactly once. A second failure is an
// ordinary fetch failure.
func withRateRetry[T any](ctx context.Context, c *Collector, fn func() (T, error)) (T, error) {
	v, err := fn()
	if err == nil || !errors.Is(err, provider.ErrRateLimited) {
		return v, err
	}
	metrics.RateLimitHits.Inc()
	c.log.Warn().Dur("cooldown", c.cooldown).Msg("rate limited, pausing before single retry")
	if !sleepCtx(ctx, c.cooldown) {
		var zero T
		return zero, ctx.Err()
	}
	return fn()
}

func batchSymbols(correlations map[string]string) []string {
	seen := make(map[string]struct{}, len(correlations))
	symbols := make([]string, 0, len(correlations))
	for _, s := range correlations {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// sleepCtx waits d unless ctx ends first; returns false on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
