package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"snake-arena-server/config"
	"snake-arena-server/server"
)

// HealthStatus represents the overall health of the arena
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthDegraded HealthStatus = "degraded"
)

// Source is the part of the session the ops surface reads from.
type Source interface {
	Stats() server.Stats
	Clients() []server.ClientInfo
}

// WorldMetrics describes the grid and what is on it
type WorldMetrics struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Snakes int `json:"snakes"`
	Fruits int `json:"fruits"`
}

// TickMetrics describes the tick loop
type TickMetrics struct {
	Rate           int     `json:"rate"`
	Count          uint64  `json:"count"`
	IntervalMs     float64 `json:"interval_ms"`
	LastDurationMs float64 `json:"last_duration_ms"`
	LoadPercentage float64 `json:"load_percentage"`
}

// SessionMetrics holds connection counters
type SessionMetrics struct {
	ActiveConnections int    `json:"active_connections"`
	Spectators        int    `json:"spectators"`
	Joins             uint64 `json:"joins"`
	Eliminations      uint64 `json:"eliminations"`
}

// MetricsResponse is the complete metrics response structure
type MetricsResponse struct {
	Timestamp         time.Time      `json:"timestamp"`
	Health            HealthStatus   `json:"health"`
	HealthDescription string         `json:"health_description"`
	World             WorldMetrics   `json:"world"`
	Tick              TickMetrics    `json:"tick"`
	Sessions          SessionMetrics `json:"sessions"`
	ServerUptime      int64          `json:"server_uptime_sec"`
}

// MetricsHandler reports session metrics
type MetricsHandler struct {
	cfg    config.Config
	source Source

	// Share of the tick interval spent working before health degrades
	warningLoad  float64
	degradedLoad float64
}

func NewMetricsHandler(cfg config.Config, source Source) *MetricsHandler {
	return &MetricsHandler{
		cfg:          cfg,
		source:       source,
		warningLoad:  70,
		degradedLoad: 100,
	}
}

// Routes registers metrics routes
func (h *MetricsHandler) Routes(r chi.Router) {
	r.Get("/metrics", h.GetMetrics)
	r.Get("/metrics/health", h.GetHealth)
	r.Get("/sessions", h.GetSessions)
}

func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.collectMetrics())
}

// GetHealth returns only health status
func (h *MetricsHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	metrics := h.collectMetrics()
	writeJSON(w, http.StatusOK, map[string]any{
		"timestamp":   metrics.Timestamp,
		"health":      metrics.Health,
		"description": metrics.HealthDescription,
		"uptime_sec":  metrics.ServerUptime,
	})
}

// GetSessions lists connected clients
func (h *MetricsHandler) GetSessions(w http.ResponseWriter, r *http.Request) {
	clients := h.source.Clients()
	writeJSON(w, http.StatusOK, apiListResponse[server.ClientInfo]{
		Items:      clients,
		TotalItems: len(clients),
	})
}

func (h *MetricsHandler) collectMetrics() *MetricsResponse {
	st := h.source.Stats()

	spectators := 0
	for _, c := range h.source.Clients() {
		if c.Spectator {
			spectators++
		}
	}

	interval := h.cfg.TickInterval()
	tick := TickMetrics{
		Rate:           st.TickRate,
		Count:          st.Ticks,
		IntervalMs:     float64(interval) / float64(time.Millisecond),
		LastDurationMs: float64(st.LastTickDuration) / float64(time.Millisecond),
	}
	if interval > 0 {
		tick.LoadPercentage = float64(st.LastTickDuration) / float64(interval) * 100
	}

	sessions := SessionMetrics{
		ActiveConnections: st.Clients,
		Spectators:        spectators,
		Joins:             st.Joins,
		Eliminations:      st.Eliminations,
	}
	health, desc := h.determineHealth(tick, sessions)

	return &MetricsResponse{
		Timestamp:         time.Now(),
		Health:            health,
		HealthDescription: desc,
		World: WorldMetrics{
			Width:  st.Width,
			Height: st.Height,
			Snakes: st.Snakes,
			Fruits: st.Fruits,
		},
		Tick:         tick,
		Sessions:     sessions,
		ServerUptime: int64(st.Uptime.Seconds()),
	}
}

// determineHealth grades the tick loop by how much of its interval the last
// tick consumed.
func (h *MetricsHandler) determineHealth(tick TickMetrics, sessions SessionMetrics) (HealthStatus, string) {
	if tick.LoadPercentage >= h.degradedLoad {
		return HealthDegraded, fmt.Sprintf("Tick loop overrunning: last tick took %.1fms of a %.1fms interval", tick.LastDurationMs, tick.IntervalMs)
	}
	if tick.LoadPercentage >= h.warningLoad {
		return HealthWarning, fmt.Sprintf("Tick loop at %.0f%% of its interval - monitor performance closely", tick.LoadPercentage)
	}
	if sessions.ActiveConnections > 0 {
		connStr := "connection"
		if sessions.ActiveConnections > 1 {
			connStr = "connections"
		}
		return HealthHealthy, fmt.Sprintf("All systems operational - %d active %s", sessions.ActiveConnections, connStr)
	}
	return HealthHealthy, "Server ready and operational - awaiting connections"
}
