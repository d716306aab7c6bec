package game_state

import (
	"math/rand"
	"time"
)

// Fruits is the set of food cells on the grid. Its size is fixed at
// construction: every eaten fruit is replaced by exactly one new fruit.
// Fruits does no locking; the owning GameState holds the lock.
type Fruits struct {
	data   map[Point]struct{}
	count  int
	width  int32
	height int32
	rng    *rand.Rand
}

// NewFruits seeds count fruits at random cells of a width x height grid.
func NewFruits(count, width, height int) *Fruits {
	return NewFruitsWithRand(count, width, height, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewFruitsWithRand is NewFruits with a caller-supplied random source.
// count is clamped to the number of cells fruits can spawn on.
func NewFruitsWithRand(count, width, height int, rng *rand.Rand) *Fruits {
	if cells := max(width-1, 1) * max(height-1, 1); count > cells {
		count = cells
	}
	f := &Fruits{
		data:   make(map[Point]struct{}, count),
		count:  count,
		width:  int32(width),
		height: int32(height),
		rng:    rng,
	}
	for len(f.data) < count {
		f.data[f.random()] = struct{}{}
	}
	return f
}

// TryEat consumes the fruit at p, if any, and spawns its replacement.
// The replacement may land on the eaten cell again or under a snake; it is
// only re-rolled while it would merge with another fruit.
func (f *Fruits) TryEat(p Point) bool {
	if _, ok := f.data[p]; !ok {
		return false
	}
	delete(f.data, p)
	for {
		next := f.random()
		if _, taken := f.data[next]; !taken {
			f.data[next] = struct{}{}
			return true
		}
	}
}

// Contains reports whether p holds a fruit.
func (f *Fruits) Contains(p Point) bool {
	_, ok := f.data[p]
	return ok
}

// Points returns the current fruit cells in unspecified order.
func (f *Fruits) Points() []Point {
	out := make([]Point, 0, len(f.data))
	for p := range f.data {
		out = append(out, p)
	}
	return out
}

func (f *Fruits) Len() int {
	return len(f.data)
}

// Count is the fixed number of fruits the field maintains.
func (f *Fruits) Count() int {
	return f.count
}

// random picks a cell in [0, width-1) x [0, height-1), i.e.
// floor(rand * (width-1)) per axis. The last row and column never hold
// fruit; both lie on the wall anyway.
func (f *Fruits) random() Point {
	return Point{
		X: int32(f.rng.Intn(int(max(f.width-1, 1)))),
		Y: int32(f.rng.Intn(int(max(f.height-1, 1)))),
	}
}
