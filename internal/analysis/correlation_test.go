package analysis

import (
	"testing"

	"GoldWatch/internal/model"
)

func reading(name string, price, change, pct float64) model.Reading {
	return model.Reading{Name: name, Price: price, Change: change, PercentChange: pct}
}

func TestAnalyzeCorrelations_YieldPressure(t *testing.T) {
	tests := []struct {
		name         string
		change       float64
		wantPressure string
		wantDir      string
	}{
		{"rising yield pressures gold down", 0.05, "Down", "▲"},
		{"falling yield pressures gold up", -0.05, "Up", "▼"},
		{"flat yield is neutral", 0, "Neutral", "→"},
	}
	for _, tt := range tests {
		out := AnalyzeCorrelations(map[string]model.Reading{
			"US10Y": reading("US10Y", 4.30, tt.change, tt.change/4.30*100),
		})
		if out.Yield == nil {
			t.Fatalf("%s: expected yield signal", tt.name)
		}
		if out.Yield.Pressure != tt.wantPressure {
			t.Errorf("%s: pressure %q, want %q", tt.name, out.Yield.Pressure, tt.wantPressure)
		}
		if out.Yield.Direction != tt.wantDir {
			t.Errorf("%s: direction %q, want %q", tt.name, out.Yield.Direction, tt.wantDir)
		}
	}
}

func TestAnalyzeCorrelations_YieldCurve(t *testing.T) {
	tests := []struct {
		name       string
		y10, y2    float64
		wantStatus string
	}{
		{"inverted", 4.30, 4.50, "Inverted"},
		{"normal", 4.55, 4.50, "Normal"},
		{"flat", 4.45, 4.50, "Flat"},
	}
	for _, tt := range tests {
		out := AnalyzeCorrelations(map[string]model.Reading{
			"US10Y": reading("US10Y", tt.y10, 0, 0),
			"US2Y":  reading("US2Y", tt.y2, 0, 0),
		})
		if out.YieldCurve == nil {
			t.Fatalf("%s: expected yield curve signal", tt.name)
		}
		if out.YieldCurve.Status != tt.wantStatus {
			t.Errorf("%s: status %q, want %q (spread %.2f)", tt.name, out.YieldCurve.Status, tt.wantStatus, out.YieldCurve.Spread)
		}
	}
}

func TestAnalyzeCorrelations_CurveNeedsBothLegs(t *testing.T) {
	out := AnalyzeCorrelations(map[string]model.Reading{
		"US10Y": reading("US10Y", 4.30, 0, 0),
	})
	if out.YieldCurve != nil {
		t.Error("expected no curve signal without the 2Y leg")
	}
}

func TestAnalyzeCorrelations_VIXTiers(t *testing.T) {
	tests := []struct {
		price     float64
		wantFear  string
		wantHaven string
	}{
		{35, "Extreme Fear", "Very High"},
		{25, "High", "High"},
		{17, "Moderate", "Moderate"},
		{12, "Low", "Low"},
	}
	for _, tt := range tests {
		out := AnalyzeCorrelations(map[string]model.Reading{
			"VIX": reading("VIX", tt.price, 0, 0),
		})
		if out.VIX == nil {
			t.Fatalf("VIX %.0f: expected signal", tt.price)
		}
		if out.VIX.FearLevel != tt.wantFear || out.VIX.HavenDemand != tt.wantHaven {
			t.Errorf("VIX %.0f: got %q/%q, want %q/%q",
				tt.price, out.VIX.FearLevel, out.VIX.HavenDemand, tt.wantFear, tt.wantHaven)
		}
	}
}

func TestAnalyzeCorrelations_DollarProxyPriority(t *testing.T) {
	// All four proxies present: the authoritative index wins.
	out := AnalyzeCorrelations(map[string]model.Reading{
		"DXY":     reading("DXY", 104.2, 0.3, 0.29),
		"USD/EUR": reading("USD/EUR", 0.92, 0.01, 0.8),
		"EUR/USD": reading("EUR/USD", 1.08, 0.01, 0.8),
		"USD/JPY": reading("USD/JPY", 148.0, 0.5, 0.3),
	})
	if out.Dollar == nil {
		t.Fatal("expected dollar signal")
	}
	if out.Dollar.Symbol != "" {
		t.Errorf("DXY proxy should carry no symbol tag, got %q", out.Dollar.Symbol)
	}
	if out.Dollar.Pressure != "Weak Inverse" {
		t.Errorf("expected Weak Inverse at 0.29%%, got %q", out.Dollar.Pressure)
	}
}

func TestAnalyzeCorrelations_EURUSDDirect(t *testing.T) {
	out := AnalyzeCorrelations(map[string]model.Reading{
		"EUR/USD": reading("EUR/USD", 1.09, 0.01, 0.8),
	})
	if out.Dollar == nil {
		t.Fatal("expected dollar signal from EUR/USD fallback")
	}
	if out.Dollar.Symbol != "EUR/USD" {
		t.Errorf("expected proxy symbol tag, got %q", out.Dollar.Symbol)
	}
	// EUR up means USD weak: direct, and 0.8% is a strong move.
	if out.Dollar.Pressure != "Strong Direct" {
		t.Errorf("expected Strong Direct for EUR/USD +0.8%%, got %q", out.Dollar.Pressure)
	}

	out = AnalyzeCorrelations(map[string]model.Reading{
		"EUR/USD": reading("EUR/USD", 1.07, -0.004, -0.3),
	})
	if out.Dollar.Pressure != "Weak Inverse" {
		t.Errorf("expected Weak Inverse for EUR/USD -0.3%%, got %q", out.Dollar.Pressure)
	}
}

func TestAnalyzeCorrelations_RiskProxy(t *testing.T) {
	tests := []struct {
		pct       float64
		wantHaven string
	}{
		{0.8, "Low"},
		{-0.8, "High"},
		{0.1, "Moderate"},
	}
	for _, tt := range tests {
		out := AnalyzeCorrelations(map[string]model.Reading{
			"GBP/USD": reading("GBP/USD", 1.27, 0, tt.pct),
		})
		if out.Risk == nil {
			t.Fatalf("pct %.1f: expected risk signal", tt.pct)
		}
		if out.Risk.HavenDemand != tt.wantHaven {
			t.Errorf("pct %.1f: haven %q, want %q", tt.pct, out.Risk.HavenDemand, tt.wantHaven)
		}
		if out.Risk.Symbol != "GBP/USD" {
			t.Errorf("expected GBP/USD proxy tag, got %q", out.Risk.Symbol)
		}
	}
}

func TestAnalyzeCorrelations_EmptyInput(t *testing.T) {
	out := AnalyzeCorrelations(map[string]model.Reading{})
	if out.Yield != nil || out.YieldCurve != nil || out.VIX != nil ||
		out.Dollar != nil || out.Risk != nil || out.BTC != nil {
		t.Errorf("expected all-nil analysis for empty input, got %+v", out)
	}
}

func TestAnalyzeCorrelations_BTCAsIs(t *testing.T) {
	out := AnalyzeCorrelations(map[string]model.Reading{
		"BTC/USD": reading("BTC/USD", 64000, -800, -1.2),
	})
	if out.BTC == nil {
		t.Fatal("expected btc signal")
	}
	if out.BTC.Direction != "▼" {
		t.Errorf("expected ▼ for negative change, got %q", out.BTC.Direction)
	}
}
