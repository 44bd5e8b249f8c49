package calculator

import (
	"sort"

	"GoldWatch/internal/model"
)

// maxLevelsPerSide caps the reported support/resistance clusters.
const maxLevelsPerSide = 5

// IdentifySupportResistance scans the trailing lookback candles for local
// extrema in a 5-candle window: a high strictly above its two neighbors
// on each side is resistance, the symmetric low is support. The overall
// max high and min low always join the candidates. Nearby levels are
// clustered within the relative tolerance and each side keeps at most
// five clusters, sorted descending by price.
func IdentifySupportResistance(candles []model.Candle, lookback int, tolerance float64) model.Levels {
	if len(candles) < 5 {
		return model.Levels{}
	}
	if lookback > len(candles) {
		lookback = len(candles)
	}
	recent := candles[len(candles)-lookback:]

	highs := make([]float64, len(recent))
	lows := make([]float64, len(recent))
	for i, c := range recent {
		highs[i] = c.High
		lows[i] = c.Low
	}

	var resistance, support []float64
	for i := 2; i < len(highs)-2; i++ {
		if highs[i] > highs[i-1] && highs[i] > highs[i-2] &&
			highs[i] > highs[i+1] && highs[i] > highs[i+2] {
			resistance = append(resistance, highs[i])
		}
		if lows[i] < lows[i-1] && lows[i] < lows[i-2] &&
			lows[i] < lows[i+1] && lows[i] < lows[i+2] {
			support = append(support, lows[i])
		}
	}

	resistance = append(resistance, maxOf(highs))
	support = append(support, minOf(lows))

	return model.Levels{
		Resistance: topDescending(clusterLevels(resistance, tolerance)),
		Support:    topDescending(clusterLevels(support, tolerance)),
	}
}

// clusterLevels merges levels lying within the relative tolerance of the
// current cluster's member, keeping the clusters sorted ascending.
func clusterLevels(levels []float64, tolerance float64) []float64 {
	if len(levels) == 0 {
		return nil
	}
	sorted := append([]float64(nil), levels...)
	sort.Float64s(sorted)

	clustered := []float64{sorted[0]}
	for _, level := range sorted[1:] {
		last := clustered[len(clustered)-1]
		if (level-last)/last > tolerance {
			clustered = append(clustered, level)
		}
	}
	return clustered
}

func topDescending(levels []float64) []float64 {
	sort.Sort(sort.Reverse(sort.Float64Slice(levels)))
	if len(levels) > maxLevelsPerSide {
		levels = levels[:maxLevelsPerSide]
	}
	return levels
}

// FindNearestLevels picks the lowest resistance strictly above price and
// the highest support strictly below it, each with an approximate pip
// distance (price difference x 10). A side with no qualifying level stays
// nil.
func FindNearestLevels(price float64, levels model.Levels) model.NearestLevels {
	var nearest model.NearestLevels

	for _, r := range levels.Resistance {
		if r > price && (nearest.Resistance == nil || r < nearest.Resistance.Price) {
			nearest.Resistance = &model.LevelDistance{Price: r, Pips: (r - price) * 10}
		}
	}
	for _, s := range levels.Support {
		if s < price && (nearest.Support == nil || s > nearest.Support.Price) {
			nearest.Support = &model.LevelDistance{Price: s, Pips: (price - s) * 10}
		}
	}
	return nearest
}

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
