package game_state

import (
	"math/rand"
	"testing"
)

// fruitsAvoiding returns a deterministic fruit field with none of its fruits on avoid.
func fruitsAvoiding(t *testing.T, count, width, height int, avoid ...Point) *Fruits {
	t.Helper()
	for seed := int64(1); seed < 1000; seed++ {
		f := NewFruitsWithRand(count, width, height, rand.New(rand.NewSource(seed)))
		clear := true
		for _, p := range avoid {
			if f.Contains(p) {
				clear = false
				break
			}
		}
		if clear {
			return f
		}
	}
	t.Fatalf("no seed keeps fruits off %v", avoid)
	return nil
}

func assertDirectionInvariant(t *testing.T, w *World) {
	t.Helper()
	if len(w.directions) != w.snakes.Len() {
		t.Fatalf("%d pending directions for %d snakes", len(w.directions), w.snakes.Len())
	}
	for _, id := range w.snakes.IDs() {
		if _, ok := w.directions[id]; !ok {
			t.Fatalf("snake %d has no pending direction", id.Uint32())
		}
	}
}

func TestUpdateMovesWithoutGrowing(t *testing.T) {
	spawn := NewPoint(5, 5)
	w := NewWorldWithFruits(10, 10, fruitsAvoiding(t, 1, 10, 10, NewPoint(4, 5)))
	if w.SpawnPoint() != spawn {
		t.Fatalf("SpawnPoint() = %v, want %v", w.SpawnPoint(), spawn)
	}
	id := w.AddSnake(NewSnake(spawn, Left, 4, Color{}), Left)
	before := w.snakes.data[id].Clone()

	if got := w.Update(); len(got) != 0 {
		t.Fatalf("unexpected eliminations: %v", got)
	}

	s, ok := w.snakes.Get(id)
	if !ok {
		t.Fatalf("snake eliminated")
	}
	if s.Head != NewPoint(4, 5) {
		t.Fatalf("head = %v, want (4, 5)", s.Head)
	}
	if len(s.Tail) != len(before.Tail) {
		t.Fatalf("len(tail) = %d, want %d", len(s.Tail), len(before.Tail))
	}
	if s.Tail[0] != before.Head {
		t.Fatalf("tail[0] = %v, want old head %v", s.Tail[0], before.Head)
	}
	for i := 1; i < len(s.Tail); i++ {
		if s.Tail[i] != before.Tail[i-1] {
			t.Fatalf("tail[%d] = %v, want %v", i, s.Tail[i], before.Tail[i-1])
		}
	}
	if w.fruits.Len() != 1 {
		t.Fatalf("fruit count = %d, want 1", w.fruits.Len())
	}
	assertDirectionInvariant(t, w)
}

func TestUpdateEatsAndGrows(t *testing.T) {
	var fruits *Fruits
	var fruit Point
	for seed := int64(1); ; seed++ {
		fruits = NewFruitsWithRand(1, 50, 50, rand.New(rand.NewSource(seed)))
		fruit = fruits.Points()[0]
		if fruit.X >= 1 && fruit.Y >= 1 {
			break
		}
	}
	w := NewWorldWithFruits(50, 50, fruits)
	id := w.AddSnake(NewSnake(fruit.Add(Right), Left, 3, Color{}), Left)
	last := w.snakes.data[id].Tail[1]

	if got := w.Update(); len(got) != 0 {
		t.Fatalf("unexpected eliminations: %v", got)
	}

	s, _ := w.snakes.Get(id)
	if s.Head != fruit {
		t.Fatalf("head = %v, want fruit cell %v", s.Head, fruit)
	}
	if len(s.Tail) != 4 {
		t.Fatalf("len(tail) = %d, want 4", len(s.Tail))
	}
	if s.Tail[3] != last {
		t.Fatalf("grown segment = %v, want %v", s.Tail[3], last)
	}
	if w.fruits.Len() != 1 {
		t.Fatalf("fruit count = %d, want 1", w.fruits.Len())
	}
}

func TestUpdateEliminatesAtBoundaries(t *testing.T) {
	cases := []struct {
		name string
		head Point
		dir  Direction
		want Point
	}{
		{"left edge", NewPoint(1, 5), Left, NewPoint(0, 5)},
		{"top edge", NewPoint(5, 1), Up, NewPoint(5, 0)},
		{"right edge", NewPoint(9, 5), Right, NewPoint(10, 5)},
		{"bottom edge", NewPoint(5, 9), Down, NewPoint(5, 10)},
	}
	for _, tc := range cases {
		w := NewWorldWithFruits(10, 10, NewFruitsWithRand(0, 10, 10, rand.New(rand.NewSource(1))))
		id := w.AddSnake(NewSnake(tc.head, tc.dir, 2, Color{}), tc.dir)

		got := w.Update()
		if len(got) != 1 || got[0].ID != id {
			t.Fatalf("%s: eliminations = %v, want snake %d", tc.name, got, id.Uint32())
		}
		if got[0].Snake.Head != tc.want {
			t.Fatalf("%s: event head = %v, want %v", tc.name, got[0].Snake.Head, tc.want)
		}
		if len(got[0].Snake.Tail) != 2 || got[0].Snake.Tail[0] != tc.head {
			t.Fatalf("%s: event tail = %v", tc.name, got[0].Snake.Tail)
		}
		if _, ok := w.snakes.Get(id); ok {
			t.Fatalf("%s: snake still registered", tc.name)
		}
		assertDirectionInvariant(t, w)
	}
}

func TestUpdateCrossSnakeCollision(t *testing.T) {
	w := NewWorldWithFruits(50, 50, NewFruitsWithRand(0, 50, 50, rand.New(rand.NewSource(1))))
	a := w.AddSnake(NewSnake(NewPoint(11, 10), Left, 2, Color{}), Left)
	b := w.AddSnake(NewSnake(NewPoint(10, 10), Down, 2, Color{}), Down)

	got := w.Update()
	if len(got) != 1 || got[0].ID != a {
		t.Fatalf("eliminations = %v, want only A", got)
	}
	if got[0].Snake.Head != NewPoint(10, 10) {
		t.Fatalf("A died at %v, want (10, 10)", got[0].Snake.Head)
	}
	sb, ok := w.snakes.Get(b)
	if !ok {
		t.Fatalf("B eliminated")
	}
	if sb.Head != NewPoint(10, 11) {
		t.Fatalf("B head = %v, want (10, 11)", sb.Head)
	}
	assertDirectionInvariant(t, w)
}

func TestUpdateHeadMayEnterVacatedTailEnd(t *testing.T) {
	w := NewWorldWithFruits(50, 50, NewFruitsWithRand(0, 50, 50, rand.New(rand.NewSource(1))))
	// B's tail ends at (10, 8); B moving down drops that cell in the same
	// tick that A's head enters it.
	b := w.AddSnake(NewSnake(NewPoint(10, 10), Down, 2, Color{}), Down)
	a := w.AddSnake(NewSnake(NewPoint(11, 8), Left, 2, Color{}), Left)

	if got := w.Update(); len(got) != 0 {
		t.Fatalf("eliminations = %v, want none", got)
	}
	sa, ok := w.snakes.Get(a)
	if !ok || sa.Head != NewPoint(10, 8) {
		t.Fatalf("A = %v, %v; want head at (10, 8)", sa, ok)
	}
	sb, _ := w.snakes.Get(b)
	if last := sb.Last(); last != NewPoint(10, 9) {
		t.Fatalf("B last segment = %v, want (10, 9)", last)
	}
	assertDirectionInvariant(t, w)
}

func TestGameStateSpawnReturnsCopy(t *testing.T) {
	gs := NewGameState(NewWorldWithFruits(20, 20, NewFruitsWithRand(0, 20, 20, rand.New(rand.NewSource(1)))))
	id, snake := gs.Spawn(Left, 3, Color{})
	snake.Tail[0] = NewPoint(1, 1)

	gs.View(func(w *World) {
		stored, _ := w.Snakes().Get(id)
		if stored.Tail[0] != NewPoint(11, 10) {
			t.Fatalf("stored tail[0] = %v, want (11, 10)", stored.Tail[0])
		}
	})
}

func TestUpdateIgnoresOwnTail(t *testing.T) {
	w := NewWorldWithFruits(20, 20, NewFruitsWithRand(0, 20, 20, rand.New(rand.NewSource(1))))
	coiled := Snake{
		Head: NewPoint(5, 5),
		Tail: []Point{{6, 5}, {6, 6}, {5, 6}, {4, 6}},
	}
	id := w.AddSnake(coiled, Down)

	if got := w.Update(); len(got) != 0 {
		t.Fatalf("snake eliminated by its own tail: %v", got)
	}
	if s, _ := w.snakes.Get(id); s.Head != NewPoint(5, 6) {
		t.Fatalf("head = %v, want (5, 6)", s.Head)
	}
}

func TestUpdateFruitCountInvariant(t *testing.T) {
	w := NewWorldWithFruits(12, 12, NewFruitsWithRand(30, 12, 12, rand.New(rand.NewSource(2))))
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 5; i++ {
		w.AddSnake(NewSnake(w.SpawnPoint(), Left, 3, Color{}), Left)
	}
	for tick := 0; tick < 40; tick++ {
		for _, id := range w.snakes.IDs() {
			w.ChangeDirection(id, Direction(rng.Intn(4)))
		}
		w.Update()
		if w.fruits.Len() != 30 {
			t.Fatalf("tick %d: fruit count = %d, want 30", tick, w.fruits.Len())
		}
		assertDirectionInvariant(t, w)
	}
}

func TestChangeDirectionIgnoresDeadSnakes(t *testing.T) {
	w := NewWorld(10, 10, 0)
	id := w.AddSnake(NewSnake(w.SpawnPoint(), Left, 1, Color{}), Left)
	if !w.ChangeDirection(id, Up) {
		t.Fatalf("ChangeDirection on a live snake = false")
	}
	if d, _ := w.Direction(id); d != Up {
		t.Fatalf("Direction = %v, want up", d)
	}
	if _, ok := w.RemoveSnake(id); !ok {
		t.Fatalf("RemoveSnake = false")
	}
	if w.ChangeDirection(id, Down) {
		t.Fatalf("ChangeDirection on a removed snake = true")
	}
	if _, ok := w.RemoveSnake(id); ok {
		t.Fatalf("second RemoveSnake = true")
	}
	assertDirectionInvariant(t, w)
}

func TestGameStateEmitsEliminations(t *testing.T) {
	gs := NewGameState(NewWorldWithFruits(10, 10, NewFruitsWithRand(0, 10, 10, rand.New(rand.NewSource(1)))))
	var hits []SnakeID
	gs.OnHit(func(id SnakeID, s Snake) {
		hits = append(hits, id)
	})
	id := gs.AddSnake(NewSnake(NewPoint(1, 5), Left, 2, Color{}), Left)
	survivor, _ := gs.Spawn(Up, 2, Color{})

	gs.Update()

	if len(hits) != 1 || hits[0] != id {
		t.Fatalf("hits = %v, want [%d]", hits, id.Uint32())
	}
	gs.View(func(w *World) {
		if _, ok := w.Snakes().Get(id); ok {
			t.Fatalf("eliminated snake still registered")
		}
		if _, ok := w.Snakes().Get(survivor); !ok {
			t.Fatalf("survivor removed")
		}
	})
}

func TestEventsReplaceHandler(t *testing.T) {
	var e Events
	e.EmitHit(SnakeID{}, Snake{})

	first, second := 0, 0
	e.OnHit(func(SnakeID, Snake) { first++ })
	e.OnHit(func(SnakeID, Snake) { second++ })
	e.EmitHit(SnakeID{}, Snake{})
	if first != 0 || second != 1 {
		t.Fatalf("first=%d second=%d, want 0 and 1", first, second)
	}
}
