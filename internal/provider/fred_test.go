package provider

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func fredServer(t *testing.T, body string) *FREDFetcher {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") == "" {
			t.Error("expected api_key param")
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewFREDFetcher(srv.URL, "test-key", zerolog.Nop())
}

func TestSeriesLatest_ComputesChange(t *testing.T) {
	f := fredServer(t, `{"observations": [
		{"date": "2026-08-21", "value": "4.50"},
		{"date": "2026-08-20", "value": "4.00"}
	]}`)

	r, err := f.SeriesLatest(context.Background(), SeriesUS10Y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Price != 4.50 {
		t.Errorf("expected price 4.50, got %v", r.Price)
	}
	if math.Abs(r.Change-0.50) > 1e-9 {
		t.Errorf("expected change 0.50, got %v", r.Change)
	}
	if math.Abs(r.PercentChange-12.5) > 1e-9 {
		t.Errorf("expected percent change 12.5, got %v", r.PercentChange)
	}
	if r.Previous == nil || *r.Previous != 4.00 {
		t.Errorf("expected previous 4.00, got %v", r.Previous)
	}
	if r.Source != "FRED" {
		t.Errorf("expected FRED source tag, got %q", r.Source)
	}
}

func TestSeriesLatest_MissingSentinel(t *testing.T) {
	f := fredServer(t, `{"observations": [
		{"date": "2026-08-21", "value": "."},
		{"date": "2026-08-20", "value": "4.00"}
	]}`)
	if _, err := f.SeriesLatest(context.Background(), SeriesVIX); err == nil {
		t.Fatal("expected error when latest observation is the missing sentinel")
	}
}

func TestSeriesLatest_MissingPreviousLeavesZeroChange(t *testing.T) {
	f := fredServer(t, `{"observations": [
		{"date": "2026-08-21", "value": "4.50"},
		{"date": "2026-08-20", "value": "."}
	]}`)

	r, err := f.SeriesLatest(context.Background(), SeriesUS2Y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Previous != nil || r.Change != 0 {
		t.Errorf("expected no change without a usable prior observation, got %+v", r)
	}
}

func TestSeriesHistory_ChronologicalSkipsMissing(t *testing.T) {
	// FRED returns newest first; history comes back oldest first.
	f := fredServer(t, `{"observations": [
		{"date": "2026-08-21", "value": "4.50"},
		{"date": "2026-08-20", "value": "."},
		{"date": "2026-08-19", "value": "4.40"}
	]}`)

	history, err := f.SeriesHistory(context.Background(), SeriesUS10Y, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 observations after skipping the sentinel, got %d", len(history))
	}
	if history[0].Date != "2026-08-19" || history[1].Date != "2026-08-21" {
		t.Errorf("expected chronological order, got %v", history)
	}
}
