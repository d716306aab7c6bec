// Package client speaks the arena protocol from the player's side: it reads
// the Join handshake, decodes a snapshot every tick and sends direction
// commands. It performs no simulation of its own.
package client

import (
	"fmt"
	"net"
	"sync"

	"github.com/gorilla/websocket"

	"snake-arena-server/game_state"
	"snake-arena-server/protocol"
	"snake-arena-server/transport"
)

// Client is a connected player. ReadSnapshot and SendDirection may be called
// from different goroutines.
type Client struct {
	stream transport.Stream
	join   protocol.Join
	sendMu sync.Mutex
}

// Dial connects to the raw TCP game endpoint.
func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}
	return New(conn)
}

// DialWebSocket connects to the WebSocket game endpoint, e.g. ws://host:8080/ws.
func DialWebSocket(url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return New(transport.NewWebSocketStream(conn))
}

// New reads the Join handshake from an established stream.
func New(stream transport.Stream) (*Client, error) {
	join, err := protocol.ReadJoin(stream)
	if err != nil {
		stream.Close()
		return nil, err
	}
	return &Client{stream: stream, join: join}, nil
}

func (c *Client) ID() game_state.SnakeID {
	return c.join.ID
}

func (c *Client) Width() int {
	return int(c.join.Width)
}

func (c *Client) Height() int {
	return int(c.join.Height)
}

// ReadSnapshot blocks until the next tick's snapshot arrives.
func (c *Client) ReadSnapshot() (protocol.Snapshot, error) {
	return protocol.ReadSnapshot(c.stream)
}

// SendDirection asks the server to turn the snake on the next tick.
func (c *Client) SendDirection(dir game_state.Direction) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return protocol.WriteDirection(c.stream, dir)
}

// Alive reports whether the client's snake is part of the snapshot.
func (c *Client) Alive(snap protocol.Snapshot) bool {
	_, ok := snap.Snakes[c.join.ID]
	return ok
}

func (c *Client) Close() error {
	return c.stream.Close()
}
