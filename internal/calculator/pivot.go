package calculator

import "GoldWatch/internal/model"

// CalculatePivotPoints derives classic floor-trader bands from the prior
// completed period (the second-to-last candle). Returns nil when fewer
// than two candles exist.
func CalculatePivotPoints(candles []model.Candle) *model.PivotPoints {
	if len(candles) < 2 {
		return nil
	}
	prev := candles[len(candles)-2]
	high, low, close := prev.High, prev.Low, prev.Close

	pivot := (high + low + close) / 3
	return &model.PivotPoints{
		Pivot: pivot,
		R1:    2*pivot - low,
		R2:    pivot + (high - low),
		R3:    high + 2*(pivot-low),
		S1:    2*pivot - high,
		S2:    pivot - (high - low),
		S3:    low - 2*(high-pivot),
	}
}
