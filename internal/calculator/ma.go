package calculator

// CalculateSMA computes the simple moving average of the trailing
// `period` closes. The second return is false when the series is too
// short.
func CalculateSMA(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period {
		return 0, false
	}
	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(period), true
}

// MovingAverages computes the SMA for each configured period. Periods the
// series cannot cover are absent from the result.
func MovingAverages(closes []float64, periods []int) map[int]float64 {
	mas := make(map[int]float64, len(periods))
	for _, period := range periods {
		if ma, ok := CalculateSMA(closes, period); ok {
			mas[period] = ma
		}
	}
	return mas
}

// MAAlignment classifies the price against every computed MA: "Bullish"
// strictly above all, "Bearish" strictly below all, else "Neutral".
// "Neutral" also when no MA was computable.
func MAAlignment(mas map[int]float64, price float64) string {
	if len(mas) == 0 {
		return "Neutral"
	}
	aboveAll, belowAll := true, true
	for _, ma := range mas {
		if price <= ma {
			aboveAll = false
		}
		if price >= ma {
			belowAll = false
		}
	}
	switch {
	case aboveAll:
		return "Bullish"
	case belowAll:
		return "Bearish"
	default:
		return "Neutral"
	}
}
