package game_state

import (
	"log"
	"sync"
)

// GameState is the world shared between the tick loop and every connection.
// Every method takes the lock itself; readers go through View.
type GameState struct {
	mu     sync.RWMutex
	world  *World
	events Events
}

func NewGameState(world *World) *GameState {
	return &GameState{world: world}
}

// OnHit registers the elimination handler. It runs inside Update with the
// write lock held and must not call back into the GameState.
func (gs *GameState) OnHit(handler func(SnakeID, Snake)) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.events.OnHit(handler)
}

// Update runs one tick and reports every elimination to the handler.
func (gs *GameState) Update() []Elimination {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	eliminated := gs.world.Update()
	for _, e := range eliminated {
		gs.events.EmitHit(e.ID, e.Snake)
	}
	return eliminated
}

// Spawn places a new snake of the given length at the spawn point, heading dir.
// The returned snake is a copy the caller may keep.
func (gs *GameState) Spawn(dir Direction, length int, color Color) (SnakeID, Snake) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	snake := NewSnake(gs.world.SpawnPoint(), dir, length, color)
	id := gs.world.AddSnake(snake, dir)
	return id, snake.Clone()
}

func (gs *GameState) AddSnake(snake Snake, dir Direction) SnakeID {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.world.AddSnake(snake, dir)
}

func (gs *GameState) ChangeDirection(id SnakeID, dir Direction) bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.world.ChangeDirection(id, dir)
}

func (gs *GameState) RemoveSnake(id SnakeID) (Snake, bool) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	snake, ok := gs.world.RemoveSnake(id)
	if ok {
		log.Printf("GameState: snake %d removed", id.Uint32())
	}
	return snake, ok
}

// Dimensions returns the immutable grid size.
func (gs *GameState) Dimensions() (width, height int) {
	return gs.world.Width, gs.world.Height
}

// View runs fn with the read lock held. fn must not retain the world.
func (gs *GameState) View(fn func(*World)) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	fn(gs.world)
}
