// Package server exposes poker tables over websockets. Each table
// runs as a room with its own goroutine; the server manages client
// connections and routes their messages to rooms.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const shutdownGrace = 5 * time.Second

// Server accepts websocket clients and tracks their lifecycles
type Server struct {
	config   *Config
	logger   *log.Logger
	registry *Registry
	upgrader websocket.Upgrader

	register    chan *Connection
	unregister  chan *Connection
	connections map[*Connection]bool
}

// NewServer creates a server for the given registry
func NewServer(config *Config, registry *Registry, logger *log.Logger) *Server {
	return &Server{
		config:   config,
		logger:   logger.WithPrefix("server"),
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		register:    make(chan *Connection),
		unregister:  make(chan *Connection, 128),
		connections: make(map[*Connection]bool),
	}
}

// Run tracks connection registration until the context is cancelled,
// then closes every open connection
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case conn := <-s.register:
			s.connections[conn] = true
			s.logger.Debug("connection registered", "open", len(s.connections))

		case conn := <-s.unregister:
			delete(s.connections, conn)
			s.logger.Debug("connection unregistered", "open", len(s.connections))

		case <-ctx.Done():
			for conn := range s.connections {
				_ = conn.Close()
			}
			return
		}
	}
}

// Handler returns the HTTP handler exposing the websocket endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe serves websocket clients until the context is
// cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.config.ListenAddress(),
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "err", err)
		return
	}

	conn := NewConnection(ws, s.registry, s.logger)
	s.register <- conn
	go func() {
		<-conn.ctx.Done()
		s.unregister <- conn
	}()
	conn.Start()
}
