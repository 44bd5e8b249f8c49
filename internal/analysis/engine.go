package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"GoldWatch/internal/calculator"
	"GoldWatch/internal/collector"
	"GoldWatch/internal/config"
	"GoldWatch/internal/model"
)

// Engine turns one cycle's input bundle into the finished market
// snapshot: technical analysis on the primary timeframe, correlation
// classification, then the derived driver/momentum/alert fields.
type Engine struct {
	primaryTimeframe string
	proximityPct     float64
	yieldAlertBps    float64

	analyzer *calculator.Analyzer
	log      zerolog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewEngine builds the engine from configuration.
func NewEngine(cfg *config.Config, log zerolog.Logger) *Engine {
	return &Engine{
		primaryTimeframe: cfg.Analysis.PrimaryTimeframe,
		proximityPct:     cfg.Analysis.AlertProximityPct,
		yieldAlertBps:    cfg.Analysis.YieldAlertBps,
		analyzer: calculator.NewAnalyzer(calculator.Params{
			RSIPeriod:        cfg.Analysis.RSIPeriod,
			RSIOverbought:    cfg.Analysis.RSIOverbought,
			RSIOversold:      cfg.Analysis.RSIOversold,
			MAPeriods:        cfg.Analysis.MAPeriods,
			LevelLookback:    cfg.Analysis.LevelLookback,
			ClusterTolerance: cfg.Analysis.ClusterTolerance,
			VolumeLookback:   cfg.Analysis.VolumeLookback,
			HighVolumeRatio:  cfg.Analysis.HighVolumeRatio,
		}),
		log: log.With().Str("component", "analysis").Logger(),
		now: time.Now,
	}
}

// Build assembles the snapshot for one cycle. A too-short primary series
// omits the technical fields; the snapshot itself is always produced.
func (e *Engine) Build(bundle *collector.Bundle) *model.MarketSnapshot {
	now := e.now().UTC()

	technical, err := e.analyzer.AnalyzeTimeframe(bundle.Primary.Series[e.primaryTimeframe])
	if err != nil {
		if errors.Is(err, calculator.ErrInsufficientData) {
			e.log.Debug().Str("timeframe", e.primaryTimeframe).Msg("series too short, omitting technicals")
		} else {
			e.log.Warn().Err(err).Msg("technical analysis failed")
		}
		technical = nil
	}

	correlations := AnalyzeCorrelations(bundle.Correlations)

	snapshot := &model.MarketSnapshot{
		Version:       model.SnapshotVersion,
		Timestamp:     now,
		Session:       CurrentSession(now),
		NextOverlap:   NextOverlap(now),
		Instrument:    e.instrumentState(bundle, technical),
		PrimaryDriver: e.primaryDriver(technical, bundle.Events, correlations, now),
		Momentum:      momentum(technical),
		Technical:     technical,
		Correlations:  correlations,
		Events:        bundle.Events,
		NextCatalyst:  nextCatalyst(bundle.Events, now),
		Alerts:        e.checkAlerts(technical, correlations, bundle.Events, now),
	}
	return snapshot
}

func (e *Engine) instrumentState(bundle *collector.Bundle, technical *model.TechnicalSnapshot) model.InstrumentState {
	state := model.InstrumentState{Quote: bundle.Primary.Quote}
	if technical != nil {
		state.Price = technical.CurrentPrice
		state.Change1h = technical.PriceChange1h
	} else if bundle.Primary.Quote != nil {
		state.Price = bundle.Primary.Quote.Price
	}
	return state
}

// primaryDriver picks the single dominant market driver, first matching
// rule wins.
func (e *Engine) primaryDriver(technical *model.TechnicalSnapshot, events []model.EconomicEvent, corr model.CorrelationAnalysis, now time.Time) string {
	if len(events) > 0 && events[0].Time.Sub(now) < time.Hour {
		return "Fundamental"
	}
	if technical != nil && (technical.RSIStatus == "Overbought" || technical.RSIStatus == "Oversold") {
		return "Technical"
	}
	if corr.Yield != nil && abs(corr.Yield.ChangeBps) > e.yieldAlertBps {
		return "Fundamental"
	}
	if corr.Dollar != nil && abs(corr.Dollar.PercentChange) > 0.5 {
		return "Sentiment"
	}
	return "Technical"
}

func momentum(technical *model.TechnicalSnapshot) model.Momentum {
	var change float64
	if technical != nil {
		change = technical.PriceChange1h
	}

	dir := "Neutral"
	switch {
	case change > 0:
		dir = "Bullish"
	case change < 0:
		dir = "Bearish"
	}

	strength := "Weak"
	switch {
	case abs(change) > 0.5:
		strength = "Strong"
	case abs(change) > 0.2:
		strength = "Moderate"
	}

	return model.Momentum{
		Strength:    strength,
		Direction:   dir,
		Description: strength + " " + dir,
	}
}

// checkAlerts runs the independent alert conditions; the sentinel
// ["None"] stands in when nothing fires.
func (e *Engine) checkAlerts(technical *model.TechnicalSnapshot, corr model.CorrelationAnalysis, events []model.EconomicEvent, now time.Time) []string {
	var alerts []string

	if technical != nil && technical.CurrentPrice > 0 {
		price := technical.CurrentPrice
		if r := technical.Nearest.Resistance; r != nil {
			if abs(price-r.Price)/price*100 < e.proximityPct {
				alerts = append(alerts, fmt.Sprintf("Approaching Resistance: $%.2f (%.1f pips)", r.Price, r.Pips))
			}
		}
		if s := technical.Nearest.Support; s != nil {
			if abs(price-s.Price)/price*100 < e.proximityPct {
				alerts = append(alerts, fmt.Sprintf("Approaching Support: $%.2f (%.1f pips)", s.Price, s.Pips))
			}
		}
	}

	if corr.Yield != nil {
		if bps := abs(corr.Yield.ChangeBps); bps > e.yieldAlertBps {
			alerts = append(alerts, fmt.Sprintf("Large Yield Move: %.1f bps", bps))
		}
	}
	if corr.Dollar != nil {
		if pct := abs(corr.Dollar.PercentChange); pct > 1.0 {
			alerts = append(alerts, fmt.Sprintf("Significant DXY Movement: %.2f%%", pct))
		}
	}

	if len(events) > 0 {
		if until := events[0].Time.Sub(now); until < 30*time.Minute {
			alerts = append(alerts, fmt.Sprintf("High-Impact News in %d minutes: %s", int(until.Minutes()), events[0].Title))
		}
	}

	if len(alerts) == 0 {
		return []string{"None"}
	}
	return alerts
}

func nextCatalyst(events []model.EconomicEvent, now time.Time) *model.Catalyst {
	if len(events) == 0 {
		return nil
	}
	next := events[0]
	return &model.Catalyst{
		Event:        next.Title,
		Time:         next.Time.UTC().Format("15:04 UTC"),
		MinutesUntil: int(next.Time.Sub(now).Minutes()),
		Impact:       next.Impact,
	}
}
