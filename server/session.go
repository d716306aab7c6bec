package server

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"snake-arena-server/config"
	"snake-arena-server/game_state"
	"snake-arena-server/protocol"
)

// SpawnDirection is the direction every new snake starts moving in.
const SpawnDirection = game_state.Left

// Session owns the shared world, the tick loop and every connected client.
type Session struct {
	cfg   config.Config
	state *game_state.GameState

	clients      map[game_state.SnakeID]*Client
	clientsMutex sync.RWMutex

	upgrader websocket.Upgrader

	rng   *rand.Rand
	rngMu sync.Mutex

	startedAt        time.Time
	ticks            atomic.Uint64
	joins            atomic.Uint64
	eliminations     atomic.Uint64
	lastTickDuration atomic.Int64
	lastFrameSize    int
}

// NewSession creates a session around a fresh world sized by cfg. cfg should
// have passed Validate; Run refuses to start otherwise.
func NewSession(cfg config.Config) *Session {
	world := game_state.NewWorld(cfg.Width, cfg.Height, cfg.FruitCount)
	return NewSessionWithState(cfg, game_state.NewGameState(world))
}

// NewSessionWithState creates a session around an existing game state.
// The same Validate requirement as NewSession applies.
func NewSessionWithState(cfg config.Config, state *game_state.GameState) *Session {
	s := &Session{
		cfg:     cfg,
		state:   state,
		clients: make(map[game_state.SnakeID]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Origins are enforced by the CORS layer of the HTTP API.
				return true
			},
		},
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		startedAt: time.Now(),
	}
	state.OnHit(s.handleElimination)
	log.Printf("Session: world %dx%d with %d fruits, %d ticks/s", cfg.Width, cfg.Height, cfg.FruitCount, cfg.TickRate)
	return s
}

// State exposes the game state guarded by the session.
func (s *Session) State() *game_state.GameState {
	return s.state
}

// Run is the tick loop. Each cycle sleeps for what is left of the tick period
// after the previous cycle's work, so an overrunning tick shortens the next
// sleep instead of drifting. It returns when ctx is done.
func (s *Session) Run(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	period := s.cfg.TickInterval()
	log.Printf("Session: Starting tick loop (%v per tick).", period)
	defer log.Printf("Session: Tick loop stopped.")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		start := time.Now()
		s.Tick()
		timer.Reset(nextDelay(period, time.Since(start)))
	}
}

func nextDelay(period, elapsed time.Duration) time.Duration {
	if elapsed >= period {
		return 0
	}
	return period - elapsed
}

// Tick advances the world once and broadcasts the resulting snapshot.
// Only one goroutine may call Tick at a time; Run is that goroutine.
func (s *Session) Tick() {
	start := time.Now()

	s.state.Update()

	frame := make([]byte, 0, s.lastFrameSize)
	s.state.View(func(w *game_state.World) {
		frame = protocol.AppendSnapshotFrame(frame, w)
	})
	s.lastFrameSize = len(frame)

	s.broadcast(frame)

	s.ticks.Add(1)
	s.lastTickDuration.Store(int64(time.Since(start)))
}

// broadcast queues frame on every registered client. A client whose queue is
// full misses this frame; nobody is unregistered here.
func (s *Session) broadcast(frame []byte) {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	for _, client := range s.clients {
		select {
		case client.send <- frame:
		default:
			log.Printf("Session: WARNING Client %d send buffer full, dropping snapshot.", client.snakeID.Uint32())
		}
	}
}

func (s *Session) randomColor() game_state.Color {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return game_state.RandomDarkColor(s.rng)
}
