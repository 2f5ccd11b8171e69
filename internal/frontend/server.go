// Package frontend serves the simulation to browser presentation layers over
// websockets: commands flow in, map and entity snapshots flow out.
package frontend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/isorts/sim/internal/config"
	"github.com/isorts/sim/internal/engine"
	"go.uber.org/zap"
)

// Enqueuer accepts commands from any goroutine.
type Enqueuer interface {
	Enqueue(cmd engine.Command) error
}

type Server struct {
	cfg      config.FrontendConfig
	hub      *Hub
	commands Enqueuer
	upgrader websocket.Upgrader
	http     *http.Server
	log      *zap.Logger
}

func NewServer(cfg config.FrontendConfig, commands Enqueuer, log *zap.Logger) *Server {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.OutQueueSize <= 0 {
		cfg.OutQueueSize = 64
	}
	s := &Server{
		cfg:      cfg,
		hub:      NewHub(log),
		commands: commands,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
	s.http = &http.Server{Addr: cfg.BindAddress, Handler: s.Handler()}
	return s
}

// Hub returns the client registry the snapshot system broadcasts through.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the HTTP routes: /ws and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{
		conn:         conn,
		send:         make(chan Message, s.cfg.OutQueueSize),
		hub:          s.hub,
		commands:     s.commands,
		writeTimeout: s.cfg.WriteTimeout,
		log:          s.log,
	}
	s.hub.add(c)
	s.log.Info("client connected", zap.Uint64("client", c.id), zap.String("remote", r.RemoteAddr))

	go c.writePump()
	go c.readPump()
}

// Listen binds the configured address. Serve must follow.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.cfg.BindAddress)
	if err != nil {
		return nil, fmt.Errorf("frontend listen %s: %w", s.cfg.BindAddress, err)
	}
	return ln, nil
}

// Serve accepts connections until ctx is cancelled, then shuts down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.http.Serve(ln) }()
	s.log.Info("frontend listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return fmt.Errorf("frontend serve: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.http.Shutdown(shutdownCtx)
	s.hub.CloseAll()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("frontend shutdown: %w", err)
	}
	return nil
}
