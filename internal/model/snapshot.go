package model

import "time"

// SnapshotVersion identifies the snapshot schema carried on the wire.
const SnapshotVersion = 1

// Levels holds the detected support/resistance clusters, at most five per
// side, sorted descending by price.
type Levels struct {
	Resistance []float64 `json:"resistance"`
	Support    []float64 `json:"support"`
}

// LevelDistance is a nearest level and its approximate distance in pips.
type LevelDistance struct {
	Price float64 `json:"price"`
	Pips  float64 `json:"pips"`
}

// NearestLevels reports the closest level on each side of the current
// price. A nil side means no qualifying level exists there.
type NearestLevels struct {
	Resistance *LevelDistance `json:"resistance,omitempty"`
	Support    *LevelDistance `json:"support,omitempty"`
}

// PivotPoints are classic floor-trader bands from the prior completed
// period.
type PivotPoints struct {
	Pivot float64 `json:"pivot"`
	R1    float64 `json:"r1"`
	R2    float64 `json:"r2"`
	R3    float64 `json:"r3"`
	S1    float64 `json:"s1"`
	S2    float64 `json:"s2"`
	S3    float64 `json:"s3"`
}

// VolumeProfile summarizes recent volume against its trailing average.
type VolumeProfile struct {
	Current      float64 `json:"current_volume"`
	Average      float64 `json:"average_volume"`
	Ratio        float64 `json:"volume_ratio"`
	IsHighVolume bool    `json:"is_high_volume"`
}

// TechnicalSnapshot is the per-timeframe technical picture, recomputed
// every cycle from the latest series and never persisted.
type TechnicalSnapshot struct {
	Timeframe      string          `json:"timeframe"`
	CurrentPrice   float64         `json:"current_price"`
	PriceChange1h  float64         `json:"price_change_1h"`
	RSI            *float64        `json:"rsi,omitempty"`
	RSIStatus      string          `json:"rsi_status"`
	MovingAverages map[int]float64 `json:"mas"`
	MAAlignment    string          `json:"ma_alignment"`
	Levels         Levels          `json:"support_resistance"`
	Nearest        NearestLevels   `json:"nearest_levels"`
	Pivots         *PivotPoints    `json:"pivot_points,omitempty"`
	Volume         *VolumeProfile  `json:"volume_profile,omitempty"`
}

// YieldSignal is the gold-pressure view of one treasury yield.
type YieldSignal struct {
	Price     float64 `json:"price"`
	ChangeBps float64 `json:"change_bps"`
	Pressure  string  `json:"pressure,omitempty"`
	Direction string  `json:"direction"`
}

// CurveSignal classifies the 2s10s spread.
type CurveSignal struct {
	Spread float64 `json:"spread"`
	Status string  `json:"status"`
}

// VolatilitySignal is the fear/haven-demand view of a volatility index.
type VolatilitySignal struct {
	Price         float64 `json:"price"`
	PercentChange float64 `json:"percent_change"`
	FearLevel     string  `json:"fear_level"`
	HavenDemand   string  `json:"haven_demand"`
	Direction     string  `json:"direction"`
}

// DollarSignal is the selected dollar-strength proxy and its pressure on
// gold.
type DollarSignal struct {
	Price         float64 `json:"price"`
	PercentChange float64 `json:"percent_change"`
	Pressure      string  `json:"pressure"`
	Direction     string  `json:"direction"`
	Symbol        string  `json:"symbol,omitempty"`
	Source        string  `json:"source,omitempty"`
}

// RiskSignal is the selected risk-sentiment proxy.
type RiskSignal struct {
	PercentChange float64 `json:"percent_change"`
	HavenDemand   string  `json:"haven_demand"`
	Direction     string  `json:"direction"`
	Symbol        string  `json:"symbol,omitempty"`
}

// AssetSignal reports an alternative asset as-is.
type AssetSignal struct {
	Price         float64 `json:"price"`
	PercentChange float64 `json:"percent_change"`
	Direction     string  `json:"direction"`
}

// CorrelationAnalysis is the derived cross-asset picture. A nil field
// means the corresponding reading was unavailable this cycle; there are
// no placeholders.
type CorrelationAnalysis struct {
	Yield      *YieldSignal      `json:"yield,omitempty"`
	Yield2Y    *YieldSignal      `json:"yield_2y,omitempty"`
	Yield30Y   *YieldSignal      `json:"yield_30y,omitempty"`
	YieldCurve *CurveSignal      `json:"yield_curve,omitempty"`
	VIX        *VolatilitySignal `json:"vix,omitempty"`
	Dollar     *DollarSignal     `json:"dxy,omitempty"`
	Risk       *RiskSignal       `json:"risk,omitempty"`
	BTC        *AssetSignal      `json:"btc,omitempty"`
}

// Momentum classifies short-term direction and strength.
type Momentum struct {
	Strength    string `json:"strength"`
	Direction   string `json:"direction"`
	Description string `json:"description"`
}

// Catalyst summarizes the single next scheduled event.
type Catalyst struct {
	Event        string `json:"event"`
	Time         string `json:"time"`
	MinutesUntil int    `json:"minutes_until"`
	Impact       Impact `json:"impact"`
}

// SessionOverlap describes the next London/NY overlap window.
type SessionOverlap struct {
	Session      string `json:"session"`
	MinutesUntil int    `json:"minutes_until"`
	Active       bool   `json:"active"`
}

// InstrumentState carries the primary instrument's price view.
type InstrumentState struct {
	Price    float64 `json:"price"`
	Change1h float64 `json:"change_1h"`
	Quote    *Quote  `json:"quote,omitempty"`
}

// MarketSnapshot is the terminal aggregate for one cycle. It is created
// fresh each cycle and never mutated after construction; ownership passes
// to the transport layer for broadcast.
type MarketSnapshot struct {
	Version       int                 `json:"version"`
	Timestamp     time.Time           `json:"timestamp"`
	Session       string              `json:"session"`
	NextOverlap   *SessionOverlap     `json:"next_session_overlap,omitempty"`
	Instrument    InstrumentState     `json:"instrument"`
	PrimaryDriver string              `json:"primary_driver"`
	Momentum      Momentum            `json:"momentum"`
	Technical     *TechnicalSnapshot  `json:"technical,omitempty"`
	Correlations  CorrelationAnalysis `json:"correlations"`
	Events        []EconomicEvent     `json:"news"`
	NextCatalyst  *Catalyst           `json:"next_catalyst,omitempty"`
	Alerts        []string            `json:"alerts"`
}
