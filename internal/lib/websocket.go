package lib

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ThreadSafeWebSocket wraps a websocket.Conn so the live view can push from the
// watcher goroutine while the connection handler reads.
// All writes block eachother, and similarly for reads.
// See https://pkg.go.dev/github.com/gorilla/websocket?utm_source=godoc#hdr-Concurrency.
type ThreadSafeWebSocket struct {
	c       *websocket.Conn
	writeMu *sync.Mutex
	readMu  *sync.Mutex
}

func NewThreadSafeWebSocket(c *websocket.Conn) ThreadSafeWebSocket {
	return ThreadSafeWebSocket{c, &sync.Mutex{}, &sync.Mutex{}}
}

func (s ThreadSafeWebSocket) ReadMessage() (int, []byte, error) {
	s.readMu.Lock()
	defer s.readMu.Unlock()
	return s.c.ReadMessage()
}

func (s ThreadSafeWebSocket) WriteMessage(messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.c.WriteMessage(messageType, data)
}

// WriteJSON fails if the write has not finished within timeout, a zero timeout means
// no deadline.
func (s ThreadSafeWebSocket) WriteJSON(v interface{}, timeout time.Duration) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := s.c.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return s.c.WriteJSON(v)
}

func (s ThreadSafeWebSocket) Close() error {
	return s.c.Close()
}
