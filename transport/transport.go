// Package transport carries the arena's byte-stream protocol over raw TCP or
// over WebSocket binary messages.
package transport

import (
	"io"
	"net"
)

const (
	TCP       = "tcp"
	WebSocket = "websocket"
)

// Stream is one client connection. net.Conn satisfies it directly.
type Stream interface {
	io.Reader
	io.Writer
	io.Closer
	RemoteAddr() net.Addr
}
