package main

import (
	"errors"
	"io"
	"log"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"snake-arena-server/client"
	"snake-arena-server/game_state"
	"snake-arena-server/pathfinding"
	"snake-arena-server/protocol"
)

var (
	addr   string
	wsURL  string
	rounds int
)

var rootCmd = &cobra.Command{
	Use:   "snake_bot",
	Short: "A headless snake that plays against a running arena",
	Long:  `Connects to an arena over TCP or WebSocket and steers its snake along the shortest path to the nearest fruit, avoiding walls and other snakes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			c   *client.Client
			err error
		)
		if wsURL != "" {
			c, err = client.DialWebSocket(wsURL)
		} else {
			c, err = client.Dial(addr)
		}
		if err != nil {
			return err
		}
		defer c.Close()
		return play(c, rounds)
	},
	SilenceUsage: true,
}

// play reads snapshots until the snake dies, the server hangs up or limit
// snapshots have been seen (0 means no limit).
func play(c *client.Client, limit int) error {
	log.Printf("Bot: Playing as snake %d on a %dx%d grid.", c.ID().Uint32(), c.Width(), c.Height())

	dir := game_state.Left
	for n := 1; limit == 0 || n <= limit; n++ {
		snap, err := c.ReadSnapshot()
		if errors.Is(err, io.EOF) {
			log.Printf("Bot: Server closed the connection.")
			return nil
		}
		if err != nil {
			return err
		}
		if !c.Alive(snap) {
			log.Printf("Bot: Snake %d eliminated after %d ticks.", c.ID().Uint32(), n)
			return nil
		}

		next := chooseDirection(snap, c.ID(), c.Width(), c.Height(), dir)
		if next != dir {
			if err := c.SendDirection(next); err != nil {
				return err
			}
			dir = next
		}
	}
	return nil
}

// chooseDirection follows the shortest path to the nearest reachable fruit.
// Without one it keeps its course while that is safe, otherwise it takes any
// safe turn. Reversing into the neck is never considered.
func chooseDirection(snap protocol.Snapshot, self game_state.SnakeID, width, height int, current game_state.Direction) game_state.Direction {
	own, ok := snap.Snakes[self]
	if !ok {
		return current
	}

	blocked := make(map[game_state.Point]bool)
	for id, s := range snap.Snakes {
		if id == self {
			continue
		}
		for _, p := range s.Body() {
			blocked[p] = true
		}
	}
	if len(own.Tail) > 0 {
		blocked[own.Tail[0]] = true
	}
	grid := pathfinding.Grid{Width: width, Height: height, Blocked: func(p game_state.Point) bool { return blocked[p] }}

	fruits := append([]game_state.Point(nil), snap.Fruits...)
	sort.Slice(fruits, func(i, j int) bool {
		return distance(own.Head, fruits[i]) < distance(own.Head, fruits[j])
	})
	for _, f := range fruits {
		path, err := pathfinding.FindPath(grid, own.Head, f)
		if err == nil && len(path) > 0 {
			return path[0]
		}
	}

	if grid.Walkable(own.Head.Add(current)) {
		return current
	}
	for _, dir := range []game_state.Direction{game_state.Up, game_state.Down, game_state.Left, game_state.Right} {
		if dir != current.Opposite() && grid.Walkable(own.Head.Add(dir)) {
			return dir
		}
	}
	return current
}

func distance(a, b game_state.Point) int {
	return abs(int(a.X-b.X)) + abs(int(a.Y-b.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func init() {
	rootCmd.Flags().StringVar(&addr, "addr", "localhost:1984", "Address of the raw TCP game listener.")
	rootCmd.Flags().StringVar(&wsURL, "ws", "", "WebSocket game URL, e.g. ws://localhost:8080/ws. Overrides --addr.")
	rootCmd.Flags().IntVar(&rounds, "rounds", 0, "Stop after this many snapshots (0 plays until eliminated).")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("snake_bot: %v", err)
		os.Exit(1)
	}
}
