package game_state

import (
	"fmt"
	"sort"
)

// Elimination is a snake removed by a tick, with its body at the moment it died.
type Elimination struct {
	ID    SnakeID
	Snake Snake
}

// World is the authoritative simulation: fruits, snakes, and the direction
// each snake will take on the next tick. World does no locking.
type World struct {
	Width  int
	Height int

	snakes     *Snakes
	fruits     *Fruits
	directions map[SnakeID]Direction
}

// NewWorld creates an empty width x height world seeded with fruitCount fruits.
func NewWorld(width, height, fruitCount int) *World {
	return NewWorldWithFruits(width, height, NewFruits(fruitCount, width, height))
}

// NewWorldWithFruits creates an empty world around an existing fruit field.
func NewWorldWithFruits(width, height int, fruits *Fruits) *World {
	return &World{
		Width:      width,
		Height:     height,
		snakes:     NewSnakes(),
		fruits:     fruits,
		directions: make(map[SnakeID]Direction),
	}
}

func (w *World) Snakes() *Snakes {
	return w.snakes
}

func (w *World) Fruits() *Fruits {
	return w.fruits
}

// SpawnPoint is the grid center, where every new snake starts.
func (w *World) SpawnPoint() Point {
	return Point{X: int32(w.Width / 2), Y: int32(w.Height / 2)}
}

// AddSnake registers the snake and its initial direction.
func (w *World) AddSnake(snake Snake, dir Direction) SnakeID {
	id := w.snakes.Add(snake)
	w.directions[id] = dir
	return id
}

// ChangeDirection records the direction applied on the next tick. It returns
// false if the snake is no longer alive.
func (w *World) ChangeDirection(id SnakeID, dir Direction) bool {
	if _, ok := w.snakes.Get(id); !ok {
		return false
	}
	w.directions[id] = dir
	return true
}

// Direction is the pending direction of a live snake.
func (w *World) Direction(id SnakeID) (Direction, bool) {
	dir, ok := w.directions[id]
	return dir, ok
}

// RemoveSnake drops the snake and its pending direction.
func (w *World) RemoveSnake(id SnakeID) (Snake, bool) {
	snake, ok := w.snakes.Remove(id)
	if ok {
		delete(w.directions, id)
	}
	return snake, ok
}

// Update advances the world by one tick and returns the snakes it eliminated.
//
// Every snake moves (and possibly eats) before any collision is evaluated, so
// collisions always compare post-move heads against post-move tails.
func (w *World) Update() []Elimination {
	w.snakes.Each(func(id SnakeID, snake *Snake) {
		dir, ok := w.directions[id]
		if !ok {
			panic(fmt.Sprintf("game_state: snake %d has no pending direction", id.v))
		}
		for i := len(snake.Tail) - 1; i > 0; i-- {
			snake.Tail[i] = snake.Tail[i-1]
		}
		if len(snake.Tail) > 0 {
			snake.Tail[0] = snake.Head
		}
		snake.Head = snake.Head.Add(dir)

		if w.fruits.TryEat(snake.Head) {
			snake.Grow()
		}
	})

	owners := make(map[Point][]SnakeID)
	w.snakes.Each(func(id SnakeID, snake *Snake) {
		for _, cell := range snake.Tail {
			owners[cell] = append(owners[cell], id)
		}
	})

	var hit []SnakeID
	for id, head := range w.snakes.Heads() {
		if w.OutOfWorld(head) || hitsOther(owners[head], id) {
			hit = append(hit, id)
		}
	}
	sort.Slice(hit, func(i, j int) bool { return hit[i].v < hit[j].v })

	eliminated := make([]Elimination, 0, len(hit))
	for _, id := range hit {
		snake, _ := w.RemoveSnake(id)
		eliminated = append(eliminated, Elimination{ID: id, Snake: snake})
	}
	return eliminated
}

// OutOfWorld treats both the zero row/column and the width/height row/column
// as walls, so the playable interior is (0, width) x (0, height).
func (w *World) OutOfWorld(p Point) bool {
	return p.X <= 0 || p.X >= int32(w.Width) || p.Y <= 0 || p.Y >= int32(w.Height)
}

func hitsOther(owners []SnakeID, self SnakeID) bool {
	for _, owner := range owners {
		if owner != self {
			return true
		}
	}
	return false
}
