// Package devserver serves the build directory and pushes live-reload notifications.
package devserver

import (
	"context"
	_ "embed"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzhttp"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DevServer = (*Server)(nil)

//go:embed static/livereload.js
var clientScript []byte

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Server is the development HTTP server.
type Server struct {
	logger   ports.Logger
	hub      *Hub
	upgrader websocket.Upgrader

	mu       sync.Mutex
	listener net.Listener
	ready    chan struct{}
}

// NewServer creates a new Server.
func NewServer(logger ports.Logger) *Server {
	return &Server{
		logger: logger,
		hub:    NewHub(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		ready: make(chan struct{}),
	}
}

// Handler returns the router serving root.
func (s *Server) Handler(root string) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(SocketPath, s.serveSocket)
	r.Handle(ScriptPath, gzhttp.GzipHandler(http.HandlerFunc(serveScript))).Methods(http.MethodGet, http.MethodHead)
	r.PathPrefix("/").Handler(gzhttp.GzipHandler(newHTMLHandler(http.Dir(root))))
	return r
}

// ListenAndServe serves root on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr, root string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrServerFailed.Error()), "addr", addr)
	}

	s.mu.Lock()
	s.listener = ln
	close(s.ready)
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.Handler(root),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	s.logger.Info("Serving " + root + " at http://" + ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.hub.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrServerFailed.Error()), "addr", addr)
	case <-ctx.Done():
	}

	// Shutdown does not track hijacked websocket connections.
	s.hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrServerFailed.Error()), "addr", addr)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return zerr.With(zerr.Wrap(err, domain.ErrServerFailed.Error()), "addr", addr)
	}
	return nil
}

// Addr blocks until the server is listening and returns its address.
func (s *Server) Addr(ctx context.Context) (net.Addr, error) {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener.Addr(), nil
}

// Reload tells every connected browser to reload and returns how many were notified.
func (s *Server) Reload() int {
	return s.hub.Broadcast(ReloadMessage)
}

func (s *Server) serveSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		return
	}

	c := s.hub.register(conn)
	defer s.hub.unregister(c)

	// Reads only detect the close; clients never send anything meaningful.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func serveScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(clientScript)
}
