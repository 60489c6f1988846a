package server

import (
	"context"
	"log/slog"

	"http-server/application/http"
	"http-server/transport"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// conn serves a single request, then closes.
type conn struct {
	con transport.Conn
	id  string

	handler Handler
	clock   clock.Clock
	metrics *metrics

	logger *slog.Logger

	opts Options
}

func (c *conn) start(ctx context.Context) {
	c.logger.Debug("established connection")

	// Unblock reads and writes when the server shuts down.
	stop := context.AfterFunc(ctx, func() { c.con.Close() })
	defer stop()

	defer func() {
		c.logger.Debug("closing connection")
		if err := c.con.Close(); err != nil && !errors.Is(err, transport.ErrConnClosed) {
			c.logger.Error("error when closing connection", "error", err)
		}
	}()

	err := c.serve(ctx)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		// Shutting down.
	case errors.Is(err, transport.ErrDeadLineExceeded):
		c.logger.Info("timeout exceeded", "error", err)
	case errors.Is(err, transport.ErrConnClosed):
		c.logger.Debug("connection closed by peer")
	default:
		c.logger.Error("failed to serve connection", "error", err)
	}
}

func (c *conn) serve(ctx context.Context) error {
	buf, err := c.read()
	if err != nil {
		return errors.Wrap(err, "reading request")
	}
	if len(buf) == 0 {
		return nil
	}

	// request is a view over buf. buf is not reused, so it outlives request.
	request, parseErr := http.ParseRequest(buf)
	c.metrics.observeRequest(len(buf), parseErr)

	hctx := &HandleContext{
		ctx:        ctx,
		id:         c.id,
		remoteAddr: c.con.RemoteAddr(),
		logger:     c.logger,
	}
	if parseErr == nil {
		hctx.logger = c.logger.With("method", request.Method().String(), "path", request.Path())
		hctx.logger.Debug("received request")
	}

	response, err := hctx.doHandle(c.handler, request, parseErr)
	if err != nil {
		return errors.Wrap(err, "handling request")
	}

	if err := c.write(response); err != nil {
		return errors.Wrap(err, "sending response")
	}
	c.metrics.observeResponse(response.Status)

	return nil
}

func (c *conn) read() ([]byte, error) {
	if timeout := c.opts.Timeout.ReadTimeout; timeout > 0 {
		c.con.SetReadDeadLine(c.clock.Now().Add(timeout))
	}

	buf := make([]byte, c.opts.bufferSize())
	n, err := c.con.Read(buf)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("received bytes", "n", n)

	return buf[:n], nil
}

func (c *conn) write(response *http.Response) error {
	if timeout := c.opts.Timeout.WriteTimeout; timeout > 0 {
		c.con.SetWriteDeadLine(c.clock.Now().Add(timeout))
	}

	return response.Send(c.con)
}
