package calculator

// CalculateRSI computes the RSI from the trailing `period` close-to-close
// changes. The second return is false when fewer than period+1 closes are
// available, leaving the indicator undefined. Returns 100 when the
// average loss is exactly zero.
func CalculateRSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}

	var avgGain, avgLoss float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100.0, true
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), true
}

// RSIStatus classifies an RSI value against the configured thresholds.
// An undefined RSI yields "N/A".
func RSIStatus(rsi float64, defined bool, overbought, oversold float64) string {
	switch {
	case !defined:
		return "N/A"
	case rsi > overbought:
		return "Overbought"
	case rsi < oversold:
		return "Oversold"
	default:
		return "Neutral"
	}
}
