package server

import (
	"sort"
	"time"

	"snake-arena-server/game_state"
)

// Stats is a point-in-time view of the session for the ops surface.
type Stats struct {
	Width            int           `json:"width"`
	Height           int           `json:"height"`
	TickRate         int           `json:"tick_rate"`
	Ticks            uint64        `json:"ticks"`
	Joins            uint64        `json:"joins"`
	Eliminations     uint64        `json:"eliminations"`
	Clients          int           `json:"clients"`
	Snakes           int           `json:"snakes"`
	Fruits           int           `json:"fruits"`
	LastTickDuration time.Duration `json:"last_tick_duration_ns"`
	Uptime           time.Duration `json:"uptime_ns"`
}

// ClientInfo describes one connected client.
type ClientInfo struct {
	SnakeID    uint32    `json:"snake_id"`
	SessionID  string    `json:"session_id"`
	Transport  string    `json:"transport"`
	RemoteAddr string    `json:"remote_addr"`
	Spectator  bool      `json:"spectator"`
	JoinedAt   time.Time `json:"joined_at"`
}

func (s *Session) Stats() Stats {
	st := Stats{
		TickRate:         s.cfg.TickRate,
		Ticks:            s.ticks.Load(),
		Joins:            s.joins.Load(),
		Eliminations:     s.eliminations.Load(),
		LastTickDuration: time.Duration(s.lastTickDuration.Load()),
		Uptime:           time.Since(s.startedAt),
	}
	st.Width, st.Height = s.state.Dimensions()
	s.state.View(func(w *game_state.World) {
		st.Snakes = w.Snakes().Len()
		st.Fruits = w.Fruits().Len()
	})

	s.clientsMutex.RLock()
	st.Clients = len(s.clients)
	s.clientsMutex.RUnlock()
	return st
}

// Clients lists connected clients ordered by snake id.
func (s *Session) Clients() []ClientInfo {
	s.clientsMutex.RLock()
	out := make([]ClientInfo, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, ClientInfo{
			SnakeID:    c.snakeID.Uint32(),
			SessionID:  c.sessionID,
			Transport:  c.transport,
			RemoteAddr: c.stream.RemoteAddr().String(),
			Spectator:  c.spectator.Load(),
			JoinedAt:   c.joinedAt,
		})
	}
	s.clientsMutex.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].SnakeID < out[j].SnakeID })
	return out
}
