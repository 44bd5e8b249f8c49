// Package calculator implements the technical analyzer: pure indicator
// computation over a price series. Nothing here touches the network or
// the cache.
package calculator

import (
	"errors"

	"GoldWatch/internal/model"
)

// minCandles is the hard floor below which no timeframe analysis is
// attempted.
const minCandles = 20

// ErrInsufficientData marks a series too short to analyze. It is a
// reported condition, not a fault: the assembler omits the timeframe's
// fields and the cycle continues.
var ErrInsufficientData = errors.New("insufficient data")

// Params are the tunables for a timeframe analysis.
type Params struct {
	RSIPeriod        int
	RSIOverbought    float64
	RSIOversold      float64
	MAPeriods        []int
	LevelLookback    int
	ClusterTolerance float64
	VolumeLookback   int
	HighVolumeRatio  float64
}

// Analyzer runs the full technical analysis for one timeframe.
type Analyzer struct {
	params Params
}

// NewAnalyzer creates an analyzer with the given parameters.
func NewAnalyzer(params Params) *Analyzer {
	return &Analyzer{params: params}
}

// AnalyzeTimeframe computes the complete technical snapshot for a series.
// Series shorter than 20 candles yield ErrInsufficientData and no partial
// output.
func (a *Analyzer) AnalyzeTimeframe(series *model.PriceSeries) (*model.TechnicalSnapshot, error) {
	if series == nil || series.Len() < minCandles {
		return nil, ErrInsufficientData
	}

	candles := series.Candles
	closes := series.Closes()
	price := closes[len(closes)-1]

	rsi, rsiOK := CalculateRSI(closes, a.params.RSIPeriod)
	mas := MovingAverages(closes, a.params.MAPeriods)
	levels := IdentifySupportResistance(candles, a.params.LevelLookback, a.params.ClusterTolerance)

	snap := &model.TechnicalSnapshot{
		Timeframe:      series.Interval,
		CurrentPrice:   price,
		PriceChange1h:  hourChange(closes),
		RSIStatus:      RSIStatus(rsi, rsiOK, a.params.RSIOverbought, a.params.RSIOversold),
		MovingAverages: mas,
		MAAlignment:    MAAlignment(mas, price),
		Levels:         levels,
		Nearest:        FindNearestLevels(price, levels),
		Pivots:         CalculatePivotPoints(candles),
		Volume:         CalculateVolumeProfile(candles, a.params.VolumeLookback, a.params.HighVolumeRatio),
	}
	if rsiOK {
		snap.RSI = &rsi
	}
	return snap, nil
}

// hourChange is the percentage change against the close 5 candles back
// (about one hour on the native 15min interval). Falls back to the latest
// close itself, yielding 0%, when the series is too short.
func hourChange(closes []float64) float64 {
	current := closes[len(closes)-1]
	prior := current
	if len(closes) >= 5 {
		prior = closes[len(closes)-5]
	}
	if prior == 0 {
		return 0
	}
	return (current - prior) / prior * 100
}
