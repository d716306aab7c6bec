package server

import (
	"errors"
	"fmt"
	"log"
	"net"

	"snake-arena-server/game_state"
	"snake-arena-server/protocol"
	"snake-arena-server/transport"
)

// Join runs the handshake for a new connection: it spawns the snake, sends
// the Join frame, registers the client for broadcasts and starts its pumps.
// On a failed handshake the snake is removed and the stream closed.
func (s *Session) Join(stream transport.Stream, kind string) (*Client, error) {
	id, _ := s.state.Spawn(SpawnDirection, s.cfg.InitialLength, s.randomColor())
	width, height := s.state.Dimensions()

	join := protocol.Join{Width: uint32(width), Height: uint32(height), ID: id}
	if err := protocol.WriteJoin(stream, join); err != nil {
		s.state.RemoveSnake(id)
		stream.Close()
		return nil, fmt.Errorf("sending join to %s: %w", stream.RemoteAddr(), err)
	}

	client := newClient(stream, kind, id)
	s.clientsMutex.Lock()
	s.clients[id] = client
	s.clientsMutex.Unlock()
	s.joins.Add(1)

	// A tick between Spawn and registration may already have eliminated the snake.
	s.state.View(func(w *game_state.World) {
		if _, alive := w.Snakes().Get(id); !alive {
			client.spectator.Store(true)
		}
	})

	log.Printf("Session: Client %d (%s, %s) joined from %s.", id.Uint32(), client.sessionID, kind, stream.RemoteAddr())

	go client.WritePump()
	go client.ReadPump(s)
	return client, nil
}

// handleDirection records the client's latest command for the next tick.
// Commands from spectators are dropped by the world.
func (s *Session) handleDirection(c *Client, dir game_state.Direction) {
	s.state.ChangeDirection(c.snakeID, dir)
}

// handleElimination runs inside GameState.Update with the world lock held.
func (s *Session) handleElimination(id game_state.SnakeID, snake game_state.Snake) {
	s.eliminations.Add(1)

	s.clientsMutex.RLock()
	client, ok := s.clients[id]
	s.clientsMutex.RUnlock()
	if ok {
		client.spectator.Store(true)
	}
	log.Printf("Session: Snake %d eliminated at %v with length %d.", id.Uint32(), snake.Head, snake.Len())
}

// unregisterClient removes the client from the broadcast set and its snake
// from the world, then closes the connection.
func (s *Session) unregisterClient(c *Client) {
	s.clientsMutex.Lock()
	_, ok := s.clients[c.snakeID]
	if ok {
		delete(s.clients, c.snakeID)
	}
	s.clientsMutex.Unlock()
	if !ok {
		return
	}

	close(c.done)
	if err := c.stream.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Printf("Client %d: close: %v", c.snakeID.Uint32(), err)
	}
	s.state.RemoveSnake(c.snakeID)
	log.Printf("Session: Client %d (%s) unregistered.", c.snakeID.Uint32(), c.sessionID)
}
