package server

import (
	"errors"
	"io"
	"log"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"snake-arena-server/game_state"
	"snake-arena-server/protocol"
	"snake-arena-server/transport"
)

// sendBufferSize is how many snapshots may queue for a slow client before
// new ones are dropped.
const sendBufferSize = 256

// Client is one connected player and the snake it steers.
type Client struct {
	stream    transport.Stream
	transport string
	snakeID   game_state.SnakeID
	sessionID string // Unique tag for log correlation
	joinedAt  time.Time
	send      chan []byte   // Outgoing frames, drained by WritePump
	done      chan struct{} // Closed when the client is unregistered
	spectator atomic.Bool   // Set once the client's snake has been eliminated
}

func newClient(stream transport.Stream, kind string, id game_state.SnakeID) *Client {
	return &Client{
		stream:    stream,
		transport: kind,
		snakeID:   id,
		sessionID: uuid.New().String(),
		joinedAt:  time.Now(),
		send:      make(chan []byte, sendBufferSize),
		done:      make(chan struct{}),
	}
}

// SnakeID is the snake this client controls.
func (c *Client) SnakeID() game_state.SnakeID {
	return c.snakeID
}

// Done is closed once the client has been unregistered.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// ReadPump reads direction frames until the stream fails, then unregisters
// the client. It is the only place a connection is torn down.
func (c *Client) ReadPump(session *Session) {
	defer session.unregisterClient(c)

	for {
		dir, err := protocol.ReadDirection(c.stream)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
				log.Printf("Client %d: disconnected.", c.snakeID.Uint32())
			case errors.Is(err, protocol.ErrInvalidDirection):
				log.Printf("Client %d: ERROR protocol violation, disconnecting: %v", c.snakeID.Uint32(), err)
			default:
				log.Printf("Client %d: read error: %v", c.snakeID.Uint32(), err)
			}
			return
		}
		session.handleDirection(c, dir)
	}
}

// WritePump writes queued frames to the stream. After a write error it keeps
// draining the queue without writing; the read side decides when to tear down.
func (c *Client) WritePump() {
	failed := false
	for {
		select {
		case frame := <-c.send:
			if failed {
				continue
			}
			if _, err := c.stream.Write(frame); err != nil {
				log.Printf("Client %d: Error sending snapshot: %v", c.snakeID.Uint32(), err)
				failed = true
			}
		case <-c.done:
			return
		}
	}
}
