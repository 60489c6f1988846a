// Package server serves one request per connection accepted from a [transport.ConnListener].
package server

import (
	"context"
	"log/slog"
	"sync"

	"http-server/transport"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Server struct {
	l transport.ConnListener

	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger  *slog.Logger
	opts    Options
	metrics *metrics

	handler Handler
	clock   clock.Clock
}

func New(
	l transport.ConnListener,
	logger *slog.Logger,
	clock clock.Clock,
	handler Handler,
	opts Options,
) (*Server, error) {
	m, err := newMetrics(opts.Registerer)
	if err != nil {
		return nil, err
	}

	s := &Server{
		l:       l,
		logger:  logger,
		opts:    opts,
		metrics: m,
		handler: handler,
		clock:   clock,
	}

	return s, nil
}

// Start accepts connections in the background until [Server.Close] is called.
func (s *Server) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.logger.Info("listening", "addr", s.l.Addr())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.acceptConn(ctx)
			if err != nil {
				switch {
				case errors.Is(err, context.Canceled):
				case errors.Is(err, transport.ErrConnListenerClosed):
					s.logger.Info("listener closed")
				default:
					s.logger.Error(
						"unexpected error when accepting connection",
						"error", err.Error(),
					)
				}
				return
			}

			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				conn.start(ctx)
			}()
		}
	}()
}

func (s *Server) acceptConn(ctx context.Context) (*conn, error) {
	con, err := s.l.Accept(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listening for connection")
	}

	id := uuid.NewString()
	conn := &conn{
		con:     con,
		id:      id,
		handler: s.handler,
		clock:   s.clock,
		metrics: s.metrics,
		logger:  s.logger.With("conn", id, "remote", con.RemoteAddr()),
		opts:    s.opts,
	}

	return conn, nil
}

// Close stops accepting, closes open connections and waits for their goroutines to finish.
// The listener itself is left open.
func (s *Server) Close() error {
	if s.cancel == nil {
		return nil
	}

	s.cancel()
	s.wg.Wait()
	s.logger.Info("shutting down server")

	return nil
}
