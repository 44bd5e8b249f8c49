package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"GoldWatch/internal/config"
	"GoldWatch/internal/model"
	"GoldWatch/internal/provider"
)

type stubStats struct {
	history []provider.Observation
	err     error
}

func (s *stubStats) Name() string { return "stub-stats" }

func (s *stubStats) SeriesLatest(context.Context, string) (*model.Reading, error) {
	return nil, errors.New("not used")
}

func (s *stubStats) SeriesHistory(_ context.Context, _ string, limit int) ([]provider.Observation, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.history) {
		return s.history[:limit], nil
	}
	return s.history, nil
}

func testServer(stats provider.StatFetcher) *Server {
	cfg := &config.Config{}
	cfg.Symbol = "XAU/USD"
	cfg.Server.Listen = ":0"
	cfg.PriceSource.Intervals = []string{"1h"}
	cfg.Schedule.UpdateCron = "0 */15 * * * *"
	return New(cfg, stats, zerolog.Nop())
}

func TestGetSnapshot_BeforeAndAfterFirstCycle(t *testing.T) {
	s := testServer(&stubStats{})

	req := httptest.NewRequest(http.MethodGet, "/api/snapshot", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before first cycle, got %d", rec.Code)
	}

	s.mu.Lock()
	s.latest = &model.MarketSnapshot{
		Version:   model.SnapshotVersion,
		Timestamp: time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC),
		Session:   "LONDON",
		Alerts:    []string{"None"},
	}
	s.mu.Unlock()

	rec = httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after publish, got %d", rec.Code)
	}
	var got model.MarketSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid snapshot JSON: %v", err)
	}
	if got.Session != "LONDON" || got.Version != model.SnapshotVersion {
		t.Errorf("unexpected snapshot payload: %+v", got)
	}
}

func TestGetConfig_NoSecrets(t *testing.T) {
	s := testServer(&stubStats{})

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var view map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("invalid config JSON: %v", err)
	}
	if view["symbol"] != "XAU/USD" {
		t.Errorf("expected symbol in config view, got %v", view)
	}
	if _, leaked := view["api_key"]; leaked {
		t.Error("config view must not expose credentials")
	}
}

func TestGetStatsHistory(t *testing.T) {
	stats := &stubStats{history: []provider.Observation{
		{Date: "2026-08-20", Value: 4.28},
		{Date: "2026-08-21", Value: 4.30},
	}}
	s := testServer(stats)

	req := httptest.NewRequest(http.MethodGet, "/api/stats/history/DGS10", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []provider.Observation
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid history JSON: %v", err)
	}
	if len(got) != 2 || got[1].Value != 4.30 {
		t.Errorf("unexpected history: %v", got)
	}
}

func TestGetStatsHistory_BadLimit(t *testing.T) {
	s := testServer(&stubStats{})

	req := httptest.NewRequest(http.MethodGet, "/api/stats/history/DGS10?limit=zero", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric limit, got %d", rec.Code)
	}
}

func TestGetStatsHistory_ProviderDown(t *testing.T) {
	s := testServer(&stubStats{err: errors.New("fred unreachable")})

	req := httptest.NewRequest(http.MethodGet, "/api/stats/history/DGS10", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502 when the provider fails, got %d", rec.Code)
	}
}

func TestPostUpdate(t *testing.T) {
	s := testServer(&stubStats{})

	req := httptest.NewRequest(http.MethodPost, "/api/update", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before trigger is wired, got %d", rec.Code)
	}

	triggered := false
	s.OnUpdateRequest = func() { triggered = true }
	rec = httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if !triggered {
		t.Error("expected the update trigger to fire")
	}
}
