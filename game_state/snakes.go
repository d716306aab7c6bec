package game_state

import (
	"math/rand"
	"sort"
)

// SnakeID identifies a snake for the lifetime of the process. Ids are only
// issued by Snakes.Add and are never reused, even after the snake is removed.
type SnakeID struct {
	v uint32
}

// Uint32 is the wire representation of the id.
func (id SnakeID) Uint32() uint32 {
	return id.v
}

// SnakeIDFromWire rebuilds an id read off the wire. Only decoders call this;
// the server never mints ids outside the registry.
func SnakeIDFromWire(v uint32) SnakeID {
	return SnakeID{v: v}
}

// Snake is a head plus an ordered tail. Tail[0] is the segment closest to the head.
type Snake struct {
	Head  Point
	Tail  []Point
	Color Color
}

// NewSnake lays out a snake of length tail segments trailing behind head,
// opposite to the direction it is about to move in.
func NewSnake(head Point, dir Direction, length int, color Color) Snake {
	tail := make([]Point, 0, length)
	last := head
	for i := 0; i < length; i++ {
		last = last.Add(dir.Opposite())
		tail = append(tail, last)
	}
	return Snake{Head: head, Tail: tail, Color: color}
}

// Last is the final tail segment, or the head for a tailless snake.
func (s *Snake) Last() Point {
	if len(s.Tail) == 0 {
		return s.Head
	}
	return s.Tail[len(s.Tail)-1]
}

// Grow appends one segment on top of the current last one; it unfolds on the next move.
func (s *Snake) Grow() {
	s.Tail = append(s.Tail, s.Last())
}

// Body is the head followed by every tail segment.
func (s *Snake) Body() []Point {
	body := make([]Point, 0, len(s.Tail)+1)
	body = append(body, s.Head)
	return append(body, s.Tail...)
}

// Len counts the head and every tail segment.
func (s *Snake) Len() int {
	return len(s.Tail) + 1
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s Snake) Clone() Snake {
	s.Tail = append([]Point(nil), s.Tail...)
	return s
}

// RandomDarkColor picks a saturated, low-luminosity color so snakes stand out
// against a bright playfield.
func RandomDarkColor(rng *rand.Rand) Color {
	c := [3]uint8{
		uint8(rng.Intn(40)),
		uint8(40 + rng.Intn(80)),
		uint8(100 + rng.Intn(60)),
	}
	rng.Shuffle(len(c), func(i, j int) { c[i], c[j] = c[j], c[i] })
	return Color{R: c[0], G: c[1], B: c[2]}
}

// Snakes is the registry of live snakes keyed by id.
type Snakes struct {
	data   map[SnakeID]*Snake
	nextID uint32
}

func NewSnakes() *Snakes {
	return &Snakes{data: make(map[SnakeID]*Snake)}
}

// Add stores the snake under a freshly issued id.
func (s *Snakes) Add(snake Snake) SnakeID {
	id := SnakeID{v: s.nextID}
	s.nextID++
	stored := snake
	s.data[id] = &stored
	return id
}

// Remove deletes the snake and hands it back to the caller.
func (s *Snakes) Remove(id SnakeID) (Snake, bool) {
	snake, ok := s.data[id]
	if !ok {
		return Snake{}, false
	}
	delete(s.data, id)
	return *snake, true
}

func (s *Snakes) Get(id SnakeID) (*Snake, bool) {
	snake, ok := s.data[id]
	return snake, ok
}

func (s *Snakes) Len() int {
	return len(s.data)
}

// IDs returns every live id in ascending order.
func (s *Snakes) IDs() []SnakeID {
	ids := make([]SnakeID, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].v < ids[j].v })
	return ids
}

// Each visits every snake in unspecified order. fn may mutate the snake but
// must not add or remove entries.
func (s *Snakes) Each(fn func(SnakeID, *Snake)) {
	for id, snake := range s.data {
		fn(id, snake)
	}
}

// Heads maps every live id to its head cell.
func (s *Snakes) Heads() map[SnakeID]Point {
	heads := make(map[SnakeID]Point, len(s.data))
	for id, snake := range s.data {
		heads[id] = snake.Head
	}
	return heads
}

// Cells flattens every body. Cells shared by two snakes appear twice.
func (s *Snakes) Cells() []Point {
	var cells []Point
	for _, snake := range s.data {
		cells = append(cells, snake.Head)
		cells = append(cells, snake.Tail...)
	}
	return cells
}
