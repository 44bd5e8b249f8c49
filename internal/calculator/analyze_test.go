package calculator

import (
	"errors"
	"testing"
	"time"

	"GoldWatch/internal/model"
)

func testParams() Params {
	return Params{
		RSIPeriod:        14,
		RSIOverbought:    70,
		RSIOversold:      30,
		MAPeriods:        []int{5, 10},
		LevelLookback:    50,
		ClusterTolerance: 0.001,
		VolumeLookback:   20,
		HighVolumeRatio:  1.5,
	}
}

func risingSeries(n int) *model.PriceSeries {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, n)
	for i := range candles {
		p := 2000 + float64(i)
		candles[i] = model.Candle{
			Time:   start.Add(time.Duration(i) * 15 * time.Minute),
			Open:   p - 0.5,
			High:   p + 1,
			Low:    p - 1,
			Close:  p,
			Volume: 1000,
		}
	}
	return &model.PriceSeries{Symbol: "XAU/USD", Interval: "1h", Candles: candles}
}

func TestAnalyzeTimeframe_Rising(t *testing.T) {
	a := NewAnalyzer(testParams())
	snap, err := a.AnalyzeTimeframe(risingSeries(25))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.RSI == nil || *snap.RSI != 100 {
		t.Errorf("expected RSI 100 for rising series, got %v", snap.RSI)
	}
	if snap.RSIStatus != "Overbought" {
		t.Errorf("expected Overbought status, got %q", snap.RSIStatus)
	}
	if len(snap.MovingAverages) != 2 {
		t.Fatalf("expected MAs for periods 5 and 10, got %v", snap.MovingAverages)
	}
	if snap.MAAlignment != "Bullish" {
		t.Errorf("expected Bullish alignment with price above both MAs, got %q", snap.MAAlignment)
	}
	if snap.PriceChange1h <= 0 {
		t.Errorf("expected positive 1h change, got %.3f", snap.PriceChange1h)
	}
	if snap.Pivots == nil {
		t.Error("expected pivot points")
	}
	if snap.Volume == nil {
		t.Error("expected volume profile for 25 candles with lookback 20")
	}
}

func TestAnalyzeTimeframe_InsufficientData(t *testing.T) {
	a := NewAnalyzer(testParams())
	_, err := a.AnalyzeTimeframe(risingSeries(19))
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for 19 candles, got %v", err)
	}
	if _, err := a.AnalyzeTimeframe(nil); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for nil series, got %v", err)
	}
}

func TestMAAlignment(t *testing.T) {
	tests := []struct {
		name  string
		mas   map[int]float64
		price float64
		want  string
	}{
		{"above all", map[int]float64{50: 90, 200: 95}, 100, "Bullish"},
		{"below all", map[int]float64{50: 110, 200: 105}, 100, "Bearish"},
		{"mixed", map[int]float64{50: 90, 200: 110}, 100, "Neutral"},
		{"equal is not above", map[int]float64{50: 100}, 100, "Neutral"},
		{"no mas", map[int]float64{}, 100, "Neutral"},
	}
	for _, tt := range tests {
		if got := MAAlignment(tt.mas, tt.price); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestHourChange_ShortSeries(t *testing.T) {
	if got := hourChange([]float64{100, 101}); got != 0 {
		t.Errorf("expected 0%% change when fewer than 5 closes, got %.3f", got)
	}
	// closes[-5] = 100 -> +2%
	if got := hourChange([]float64{100, 100.5, 101, 101.5, 102}); got != 2 {
		t.Errorf("expected 2%% change, got %.3f", got)
	}
}

func TestCalculateVolumeProfile(t *testing.T) {
	candles := make([]model.Candle, 20)
	for i := range candles {
		candles[i] = model.Candle{Volume: 100}
	}
	candles[19].Volume = 200

	vp := CalculateVolumeProfile(candles, 20, 1.5)
	if vp == nil {
		t.Fatal("expected volume profile")
	}
	if !vp.IsHighVolume {
		t.Errorf("expected high-volume flag at ratio %.2f", vp.Ratio)
	}

	if CalculateVolumeProfile(candles[:10], 20, 1.5) != nil {
		t.Error("expected nil profile when series shorter than lookback")
	}
}
