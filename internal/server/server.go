// Package server serves the current graph view over HTTP and tells connected browsers
// to reload whenever the view is replaced.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/psidex/graphview/internal/elements"
	"github.com/psidex/graphview/internal/graphs"
	"github.com/psidex/graphview/internal/lib"
	"github.com/psidex/graphview/internal/view"
)

const reloadScript = `
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type === "reload") {
      location.reload();
    }
  };
})();
`

// writeWait bounds how long one client may hold up a broadcast.
const writeWait = 5 * time.Second

// Message is what the server sends down the websocket.
type Message struct {
	Type string `json:"type"`
	View string `json:"view"`
}

type Server struct {
	views    *view.Initializer
	logger   *slog.Logger
	upgrader websocket.Upgrader

	clientsMu *sync.Mutex
	clients   map[*websocket.Conn]lib.ThreadSafeWebSocket
}

func New(views *view.Initializer, logger *slog.Logger) *Server {
	return &Server{
		views:  views,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clientsMu: &sync.Mutex{},
		clients:   make(map[*websocket.Conn]lib.ThreadSafeWebSocket),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleView)
	mux.HandleFunc("GET /elements", s.handleElements)
	mux.HandleFunc("GET /ws", s.handleWs)
	return mux
}

// Run serves on address until ctx is done, pushing a reload to every client whenever
// the current view changes.
func (s *Server) Run(ctx context.Context, address string) error {
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	changed, unsubscribe := s.views.Subscribe()
	defer unsubscribe()
	go s.notifyLoop(ctx, changed)

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("Serving graph view", "address", lis.Addr().String())
		errs <- srv.Serve(lis)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.closeClients()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) notifyLoop(ctx context.Context, changed <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-changed:
			if v := s.views.Current(); v != nil {
				s.Broadcast(Message{Type: "reload", View: v.ID()})
			}
		}
	}
}

// Broadcast sends msg to every connected client, dropping clients that fail or take
// longer than writeWait. Clients are written to without holding the client lock.
func (s *Server) Broadcast(msg Message) {
	s.clientsMu.Lock()
	clients := make(map[*websocket.Conn]lib.ThreadSafeWebSocket, len(s.clients))
	for conn, ws := range s.clients {
		clients[conn] = ws
	}
	s.clientsMu.Unlock()

	for conn, ws := range clients {
		if err := ws.WriteJSON(msg, writeWait); err != nil {
			s.logger.Warn("Dropping websocket client", "remote", conn.RemoteAddr().String(), "error", err)
			s.removeClient(conn)
			_ = ws.Close()
		}
	}
	s.logger.Debug("Broadcast sent", "type", msg.Type, "view", msg.View, "clients", s.Clients())
}

// Clients returns how many websocket clients are connected.
func (s *Server) Clients() int {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	return len(s.clients)
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, conn)
}

func (s *Server) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for conn, ws := range s.clients {
		_ = ws.Close()
		delete(s.clients, conn)
	}
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	v := s.views.Current()
	if v == nil {
		http.Error(w, "no graph view yet", http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := v.Render(&buf); err != nil {
		s.logger.Error("Render failed", "view", v.ID(), "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	body, err := withReload(v, buf.Bytes())
	if err != nil {
		s.logger.Error("Adding reload script failed", "view", v.ID(), "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType(v))
	w.Header().Set("X-Graph-View", v.ID())
	w.Header().Set("X-Graph-Renderer", s.views.Renderer().Name())
	_, _ = w.Write(body)
}

// withReload adds the reload client to HTML views and wraps SVG in a page that has it.
// Anything else is served as is.
func withReload(v graphs.View, body []byte) ([]byte, error) {
	switch {
	case strings.HasPrefix(v.ContentType(), "text/html"):
		return graphs.InjectScript(body, reloadScript)
	case v.ContentType() == "image/svg+xml":
		page := fmt.Sprintf("<!DOCTYPE html><html><head><meta charset=\"UTF-8\"></head><body>%s</body></html>", body)
		return graphs.InjectScript([]byte(page), reloadScript)
	default:
		return body, nil
	}
}

func contentType(v graphs.View) string {
	if v.ContentType() == "image/svg+xml" {
		return "text/html; charset=utf-8"
	}
	return v.ContentType()
}

func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	v := s.views.Current()
	if v == nil {
		http.Error(w, "no graph view yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := elements.Encode(w, v.Elements()); err != nil {
		s.logger.Error("Encoding elements failed", "error", err)
	}
}

func (s *Server) handleWs(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", "error", err)
		return
	}

	ws := lib.NewThreadSafeWebSocket(c)

	s.clientsMu.Lock()
	s.clients[c] = ws
	s.clientsMu.Unlock()

	defer func() {
		s.removeClient(c)
		_ = ws.Close()
	}()

	s.logger.Debug("ws client connected", "remote", r.RemoteAddr, "clients", s.Clients())

	// Clients have nothing to say, reading just notices when they go away.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("ws read error", "error", err)
			}
			return
		}
	}
}
