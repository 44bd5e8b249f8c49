// Package server is the transport boundary: a JSON API over echo plus a
// WebSocket broadcast of each cycle's snapshot.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"GoldWatch/internal/config"
	"GoldWatch/internal/model"
	"GoldWatch/internal/provider"
)

// Server owns the HTTP listener, the WebSocket hub, and the latest
// published snapshot.
type Server struct {
	echo   *echo.Echo
	hub    *Hub
	stats  provider.StatFetcher
	listen string
	log    zerolog.Logger

	// OnUpdateRequest, when set, triggers an on-demand cycle for the
	// manual-update endpoint.
	OnUpdateRequest func()

	mu     sync.RWMutex
	latest *model.MarketSnapshot
}

// New builds the server and registers its routes.
func New(cfg *config.Config, stats provider.StatFetcher, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:   e,
		hub:    NewHub(log),
		stats:  stats,
		listen: cfg.Server.Listen,
		log:    log.With().Str("component", "server").Logger(),
	}

	e.GET("/api/snapshot", s.getSnapshot)
	e.GET("/api/config", s.getConfig(cfg))
	e.GET("/api/stats/history/:series", s.getStatsHistory)
	e.POST("/api/update", s.postUpdate)
	e.GET("/ws", s.getWS)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return s
}

// Publish stores the snapshot as the latest and broadcasts it to all
// WebSocket clients.
func (s *Server) Publish(snap *model.MarketSnapshot) {
	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()

	payload, err := json.Marshal(snap)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal snapshot for broadcast")
		return
	}
	s.hub.Broadcast(payload)
}

// Start begins serving in the background.
func (s *Server) Start() {
	go s.hub.Run()
	go func() {
		s.log.Info().Str("addr", s.listen).Msg("http server listening")
		if err := s.echo.Start(s.listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("http server stopped")
		}
	}()
}

// Stop shuts the listener down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) getSnapshot(c echo.Context) error {
	s.mu.RLock()
	snap := s.latest
	s.mu.RUnlock()

	if snap == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "no data available yet"})
	}
	return c.JSON(http.StatusOK, snap)
}

// getConfig exposes the non-secret tunables a dashboard needs.
func (s *Server) getConfig(cfg *config.Config) echo.HandlerFunc {
	view := map[string]any{
		"symbol":       cfg.Symbol,
		"timeframes":   cfg.PriceSource.Intervals,
		"update_cron":  cfg.Schedule.UpdateCron,
		"correlations": cfg.Correlations,
	}
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, view)
	}
}

func (s *Server) getStatsHistory(c echo.Context) error {
	seriesID := c.Param("series")

	limit := 30
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
		}
		limit = n
	}

	history, err := s.stats.SeriesHistory(c.Request().Context(), seriesID, limit)
	if err != nil {
		s.log.Warn().Str("series", seriesID).Err(err).Msg("history fetch failed")
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "history unavailable"})
	}
	return c.JSON(http.StatusOK, history)
}

func (s *Server) postUpdate(c echo.Context) error {
	if s.OnUpdateRequest == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "updates not wired"})
	}
	s.OnUpdateRequest()
	return c.JSON(http.StatusAccepted, map[string]string{"status": "update scheduled"})
}

func (s *Server) getWS(c echo.Context) error {
	s.mu.RLock()
	var greeting []byte
	if s.latest != nil {
		greeting, _ = json.Marshal(s.latest)
	}
	s.mu.RUnlock()

	if err := s.hub.serve(c.Response(), c.Request(), greeting); err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return err
	}
	return nil
}
