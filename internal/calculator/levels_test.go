package calculator

import (
	"testing"

	"GoldWatch/internal/model"
)

func TestClusterLevels_MergesWithinTolerance(t *testing.T) {
	got := clusterLevels([]float64{100.0, 100.05, 105.0}, 0.001)
	want := []float64{100.0, 105.0}
	if len(got) != len(want) {
		t.Fatalf("expected %d clusters, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cluster %d: expected %.2f, got %.2f", i, want[i], got[i])
		}
	}
}

func TestClusterLevels_Empty(t *testing.T) {
	if got := clusterLevels(nil, 0.001); got != nil {
		t.Errorf("expected nil for no levels, got %v", got)
	}
}

func TestTopDescending_Truncates(t *testing.T) {
	levels := []float64{1, 2, 3, 4, 5, 6, 7}
	got := topDescending(levels)
	if len(got) != 5 {
		t.Fatalf("expected at most 5 levels, got %d", len(got))
	}
	if got[0] != 7 || got[4] != 3 {
		t.Errorf("expected descending [7..3], got %v", got)
	}
}

func TestFindNearestLevels(t *testing.T) {
	levels := model.Levels{
		Resistance: []float64{110, 101},
		Support:    []float64{99, 95},
	}
	nearest := FindNearestLevels(100, levels)

	if nearest.Resistance == nil || nearest.Resistance.Price != 101 {
		t.Errorf("expected nearest resistance 101, got %+v", nearest.Resistance)
	}
	if nearest.Support == nil || nearest.Support.Price != 99 {
		t.Errorf("expected nearest support 99, got %+v", nearest.Support)
	}
	if nearest.Resistance.Pips != 10 {
		t.Errorf("expected 10 pips to resistance, got %.1f", nearest.Resistance.Pips)
	}
}

func TestFindNearestLevels_NoQualifyingSide(t *testing.T) {
	levels := model.Levels{Resistance: []float64{90}, Support: []float64{110}}
	nearest := FindNearestLevels(100, levels)
	if nearest.Resistance != nil {
		t.Errorf("no resistance above price, got %+v", nearest.Resistance)
	}
	if nearest.Support != nil {
		t.Errorf("no support below price, got %+v", nearest.Support)
	}
}

func TestIdentifySupportResistance_AlwaysHasExtremes(t *testing.T) {
	candles := make([]model.Candle, 30)
	for i := range candles {
		base := 100 + float64(i%7)
		candles[i] = model.Candle{Open: base, High: base + 1, Low: base - 1, Close: base}
	}
	levels := IdentifySupportResistance(candles, 50, 0.001)
	if len(levels.Resistance) == 0 {
		t.Error("expected at least one resistance level")
	}
	if len(levels.Support) == 0 {
		t.Error("expected at least one support level")
	}
	if len(levels.Resistance) > 5 || len(levels.Support) > 5 {
		t.Errorf("expected at most 5 levels per side, got %d/%d",
			len(levels.Resistance), len(levels.Support))
	}
}

func TestCalculatePivotPoints(t *testing.T) {
	candles := []model.Candle{
		{High: 110, Low: 90, Close: 100},
		{High: 105, Low: 95, Close: 102},
	}
	p := CalculatePivotPoints(candles)
	if p == nil {
		t.Fatal("expected pivot points for 2 candles")
	}
	// Pivot from the second-to-last candle: (110+90+100)/3 = 100.
	if p.Pivot != 100 {
		t.Errorf("expected pivot 100, got %.2f", p.Pivot)
	}
	if p.R1 != 110 { // 2*100 - 90
		t.Errorf("expected R1 110, got %.2f", p.R1)
	}
	if p.S1 != 90 { // 2*100 - 110
		t.Errorf("expected S1 90, got %.2f", p.S1)
	}

	if got := CalculatePivotPoints(candles[:1]); got != nil {
		t.Error("expected nil pivots for a single candle")
	}
}
