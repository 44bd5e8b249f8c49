// Package analysis derives the cross-asset picture and assembles the
// terminal market snapshot from one cycle's fetched inputs. Everything
// here is pure over the inputs it is given.
package analysis

import (
	"GoldWatch/internal/model"
)

// Reading names used by the correlation rules. They match the keys the
// orchestrator emits for both the statistics singles and the batched
// quote basket.
const (
	readingUS10Y  = "US10Y"
	readingUS2Y   = "US2Y"
	readingUS30Y  = "US30Y"
	readingDXY    = "DXY"
	readingVIX    = "VIX"
	readingUSDEUR = "USD/EUR"
	readingEURUSD = "EUR/USD"
	readingUSDJPY = "USD/JPY"
	readingSPX    = "SPX"
	readingGBPUSD = "GBP/USD"
	readingBTC    = "BTC/USD"
)

// dollarProxies is the substitution chain for dollar strength, tried in
// priority order; the first available reading wins. EUR/USD is the one
// proxy where a positive move is direct pressure on gold (EUR up means
// USD weak), all others are inverse.
var dollarProxies = []struct {
	name   string
	direct bool
	tagged bool // report the proxy symbol on the signal
}{
	{readingDXY, false, false},
	{readingUSDEUR, false, true},
	{readingEURUSD, true, true},
	{readingUSDJPY, false, true},
}

// riskProxies is the substitution chain for risk sentiment.
var riskProxies = []struct {
	name   string
	tagged bool
}{
	{readingSPX, false},
	{readingGBPUSD, true},
}

// AnalyzeCorrelations classifies whatever subset of correlation readings
// arrived this cycle. A missing reading leaves its signal nil; nothing is
// synthesized.
func AnalyzeCorrelations(readings map[string]model.Reading) model.CorrelationAnalysis {
	var out model.CorrelationAnalysis

	if r, ok := readings[readingUS10Y]; ok {
		s := yieldSignal(r)
		s.Pressure = yieldPressure(r.Change)
		out.Yield = s
	}
	if r, ok := readings[readingUS2Y]; ok {
		out.Yield2Y = yieldSignal(r)
	}
	if r, ok := readings[readingUS30Y]; ok {
		out.Yield30Y = yieldSignal(r)
	}
	if out.Yield != nil && out.Yield2Y != nil {
		out.YieldCurve = yieldCurve(out.Yield.Price, out.Yield2Y.Price)
	}
	if r, ok := readings[readingVIX]; ok {
		out.VIX = volatilitySignal(r)
	}
	out.Dollar = selectDollarProxy(readings)
	out.Risk = selectRiskProxy(readings)
	if r, ok := readings[readingBTC]; ok {
		out.BTC = &model.AssetSignal{
			Price:         r.Price,
			PercentChange: r.PercentChange,
			Direction:     direction(r.PercentChange),
		}
	}
	return out
}

func yieldSignal(r model.Reading) *model.YieldSignal {
	return &model.YieldSignal{
		Price:     r.Price,
		ChangeBps: r.PercentChange * 100,
		Direction: direction(r.Change),
	}
}

// yieldPressure is the gold-pressure reading of a yield move: rising
// yields raise the opportunity cost of holding gold.
func yieldPressure(change float64) string {
	switch {
	case change > 0:
		return "Down"
	case change < 0:
		return "Up"
	default:
		return "Neutral"
	}
}

func yieldCurve(y10, y2 float64) *model.CurveSignal {
	spread := y10 - y2
	status := "Normal"
	switch {
	case spread < -0.1:
		status = "Inverted"
	case spread <= 0:
		status = "Flat"
	}
	return &model.CurveSignal{Spread: spread, Status: status}
}

func volatilitySignal(r model.Reading) *model.VolatilitySignal {
	fear, haven := "Low", "Low"
	switch {
	case r.Price > 30:
		fear, haven = "Extreme Fear", "Very High"
	case r.Price > 20:
		fear, haven = "High", "High"
	case r.Price > 15:
		fear, haven = "Moderate", "Moderate"
	}
	return &model.VolatilitySignal{
		Price:         r.Price,
		PercentChange: r.PercentChange,
		FearLevel:     fear,
		HavenDemand:   haven,
		Direction:     direction(r.PercentChange),
	}
}

func selectDollarProxy(readings map[string]model.Reading) *model.DollarSignal {
	for _, p := range dollarProxies {
		r, ok := readings[p.name]
		if !ok {
			continue
		}
		strength := "Weak"
		if abs(r.PercentChange) > 0.5 {
			strength = "Strong"
		}
		relation := "Inverse"
		if p.direct && r.PercentChange > 0 {
			relation = "Direct"
		}
		s := &model.DollarSignal{
			Price:         r.Price,
			PercentChange: r.PercentChange,
			Pressure:      strength + " " + relation,
			Direction:     direction(r.PercentChange),
			Source:        r.Source,
		}
		if p.tagged {
			s.Symbol = p.name
		}
		return s
	}
	return nil
}

func selectRiskProxy(readings map[string]model.Reading) *model.RiskSignal {
	for _, p := range riskProxies {
		r, ok := readings[p.name]
		if !ok {
			continue
		}
		haven := "Moderate"
		switch {
		case r.PercentChange > 0.5:
			haven = "Low"
		case r.PercentChange < -0.5:
			haven = "High"
		}
		s := &model.RiskSignal{
			PercentChange: r.PercentChange,
			HavenDemand:   haven,
			Direction:     direction(r.PercentChange),
		}
		if p.tagged {
			s.Symbol = p.name
		}
		return s
	}
	return nil
}

// direction is the three-way sign glyph used on every signal.
func direction(v float64) string {
	switch {
	case v > 0:
		return "▲"
	case v < 0:
		return "▼"
	default:
		return "→"
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
