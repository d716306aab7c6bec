// Package pathfinding runs A* over the arena grid for headless players.
package pathfinding

import (
	"container/heap"
	"errors"

	"snake-arena-server/game_state"
)

// ErrNoPath is returned when the goal cannot be reached from the start.
var ErrNoPath = errors.New("pathfinding: no path found")

// Grid describes the walkable cells. Walls follow the arena rule: the zero
// row/column and the width/height row/column are out.
type Grid struct {
	Width, Height int
	Blocked       func(game_state.Point) bool
}

// Walkable reports whether a snake head may enter p.
func (g Grid) Walkable(p game_state.Point) bool {
	if p.X <= 0 || p.Y <= 0 || int(p.X) >= g.Width || int(p.Y) >= g.Height {
		return false
	}
	return g.Blocked == nil || !g.Blocked(p)
}

// node is one entry of the open set.
type node struct {
	p     game_state.Point
	g, f  int
	index int // Index in the priority queue (required by container/heap)
}

// priorityQueue implements heap.Interface as a min-heap on f.
type priorityQueue []*node

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].f < pq[j].f
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	n := x.(*node)
	n.index = len(*pq)
	*pq = append(*pq, n)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// heuristic is the Manhattan distance, admissible for 4-way movement.
func heuristic(a, b game_state.Point) int {
	dx, dy := int(a.X-b.X), int(a.Y-b.Y)
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

var directions = []game_state.Direction{game_state.Up, game_state.Down, game_state.Left, game_state.Right}

// FindPath returns the moves that walk from start to goal. The start cell
// itself does not need to be walkable; the snake's head is standing on it.
func FindPath(g Grid, start, goal game_state.Point) ([]game_state.Direction, error) {
	if !g.Walkable(goal) {
		return nil, ErrNoPath
	}

	type step struct {
		from game_state.Point
		dir  game_state.Direction
	}
	cameFrom := make(map[game_state.Point]step)
	gScore := map[game_state.Point]int{start: 0}
	open := make(map[game_state.Point]*node)

	pq := priorityQueue{}
	first := &node{p: start, f: heuristic(start, goal)}
	heap.Push(&pq, first)
	open[start] = first

	// Every cell can be settled at most once.
	maxIterations := g.Width * g.Height
	for iterations := 0; pq.Len() > 0 && iterations <= maxIterations; iterations++ {
		current := heap.Pop(&pq).(*node)
		delete(open, current.p)

		if current.p == goal {
			var path []game_state.Direction
			for p := goal; p != start; p = cameFrom[p].from {
				path = append(path, cameFrom[p].dir)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, nil
		}

		for _, dir := range directions {
			next := current.p.Add(dir)
			if !g.Walkable(next) {
				continue
			}
			tentative := current.g + 1
			if known, ok := gScore[next]; ok && tentative >= known {
				continue
			}
			cameFrom[next] = step{from: current.p, dir: dir}
			gScore[next] = tentative
			f := tentative + heuristic(next, goal)
			if n, ok := open[next]; ok {
				n.g, n.f = tentative, f
				heap.Fix(&pq, n.index)
				continue
			}
			n := &node{p: next, g: tentative, f: f}
			heap.Push(&pq, n)
			open[next] = n
		}
	}
	return nil, ErrNoPath
}
