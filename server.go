package busboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/klauspost/compress/gzhttp"
)

// Server exposes a Board's state over HTTP.
type Server struct {
	board  *Board
	srv    *http.Server
	logger *slog.Logger
}

// NewServer builds a status server for board on port.
func NewServer(board *Board, port int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{board: board, logger: logger}
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/api/health", s.handleHealth)
	router.HandlerFunc(http.MethodGet, "/api/arrivals", s.handleArrivals)
	router.HandlerFunc(http.MethodGet, "/api/frame.png", s.handleFrame)
	return gzhttp.GzipHandler(router)
}

// Start binds the port and serves in the background. Bind errors are returned.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("busboard: listen %s: %w", s.srv.Addr, err)
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", slog.String("error", err.Error()))
		}
	}()
	s.logger.Info("server listening", slog.String("addr", ln.Addr().String()))
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server shut down")
	return nil
}
