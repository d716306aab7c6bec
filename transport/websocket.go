package transport

import (
	"io"
	"log"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// WebSocket heartbeat settings to detect disconnected clients
	PING_INTERVAL = 10 * time.Second // Frequency of sending ping messages
	PONG_WAIT     = 60 * time.Second // Time to wait for a pong response before considering client disconnected
	WRITE_WAIT    = 10 * time.Second // Deadline for a single frame write

	maxMessageSize = 1 << 20
)

// WebSocketStream presents a WebSocket connection as a byte stream: every
// Write is one binary message and Read concatenates incoming binary messages.
// Text messages are ignored.
type WebSocketStream struct {
	conn      *websocket.Conn
	reader    io.Reader
	done      chan struct{}
	closeOnce sync.Once
}

// NewWebSocketStream wraps conn and starts its ping loop. At most one
// goroutine may Read and one may Write at a time.
func NewWebSocketStream(conn *websocket.Conn) *WebSocketStream {
	s := &WebSocketStream{
		conn: conn,
		done: make(chan struct{}),
	}
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(PONG_WAIT))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(PONG_WAIT)) // Extend deadline on pong
	})
	go s.pingLoop()
	return s
}

func (s *WebSocketStream) Read(p []byte) (int, error) {
	for {
		if s.reader == nil {
			msgType, r, err := s.conn.NextReader()
			if err != nil {
				return 0, err
			}
			if msgType != websocket.BinaryMessage {
				continue
			}
			s.reader = r
		}
		n, err := s.reader.Read(p)
		if err == io.EOF {
			s.reader = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (s *WebSocketStream) Write(p []byte) (int, error) {
	_ = s.conn.SetWriteDeadline(time.Now().Add(WRITE_WAIT))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close sends a normal close frame, best effort, and closes the connection.
func (s *WebSocketStream) Close() error {
	err := net.ErrClosed
	s.closeOnce.Do(func() {
		close(s.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		err = s.conn.Close()
	})
	return err
}

func (s *WebSocketStream) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

func (s *WebSocketStream) pingLoop() {
	ticker := time.NewTicker(PING_INTERVAL)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(WRITE_WAIT)); err != nil {
				log.Printf("WebSocket %s: Error sending ping: %v", s.conn.RemoteAddr(), err)
				return
			}
		case <-s.done:
			return
		}
	}
}
