package server

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"snake-arena-server/transport"
)

// Serve accepts raw TCP game connections on ln until ctx is done or ln is
// closed. Any other accept error (EMFILE, ECONNABORTED, timeouts) is logged
// and retried with backoff, as net/http does.
func (s *Session) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	log.Printf("Session: Accepting game connections on %s", ln.Addr())

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			backoff = min(max(2*backoff, 5*time.Millisecond), time.Second)
			log.Printf("Session: WARNING accept error: %v; retrying in %v", err, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		backoff = 0

		go func() {
			if _, err := s.Join(conn, transport.TCP); err != nil {
				log.Printf("Session: ERROR %v", err)
			}
		}()
	}
}

// HandleWebSocket upgrades the request and joins the connection to the session.
func (s *Session) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Session: WebSocket upgrade failed: %v", err)
		return
	}
	if _, err := s.Join(transport.NewWebSocketStream(conn), transport.WebSocket); err != nil {
		log.Printf("Session: ERROR %v", err)
	}
}

// Shutdown closes every client connection; each read pump then unregisters
// its client as it would after a network failure.
func (s *Session) Shutdown() {
	s.clientsMutex.RLock()
	streams := make([]transport.Stream, 0, len(s.clients))
	for _, c := range s.clients {
		streams = append(streams, c.stream)
	}
	s.clientsMutex.RUnlock()

	for _, stream := range streams {
		stream.Close()
	}
	log.Printf("Session: Closed %d client connections.", len(streams))
}
