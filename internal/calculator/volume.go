package calculator

import "GoldWatch/internal/model"

// CalculateVolumeProfile compares the latest candle's volume against the
// trailing lookback average. Returns nil when the series cannot cover the
// lookback.
func CalculateVolumeProfile(candles []model.Candle, lookback int, highRatio float64) *model.VolumeProfile {
	if lookback <= 0 || len(candles) < lookback {
		return nil
	}

	recent := candles[len(candles)-lookback:]
	sum := 0.0
	for _, c := range recent {
		sum += c.Volume
	}
	avg := sum / float64(len(recent))

	current := candles[len(candles)-1].Volume
	ratio := 1.0
	if avg > 0 {
		ratio = current / avg
	}

	return &model.VolumeProfile{
		Current:      current,
		Average:      avg,
		Ratio:        ratio,
		IsHighVolume: ratio > highRatio,
	}
}
