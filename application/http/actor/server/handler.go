package server

import (
	"context"
	"log/slog"

	"http-server/application/http"
	"http-server/application/http/status"
	"http-server/transport"

	"github.com/pkg/errors"
)

// Handler answers requests. A Handler is called from many connections at once.
type Handler interface {
	HandleRequest(c *HandleContext, request *http.Request) *http.Response
	// HandleBadRequest answers a buffer that could not be parsed. err is a [*http.ParseError].
	HandleBadRequest(c *HandleContext, err error) *http.Response
}

// BadRequestHandler provides the default HandleBadRequest. Embed it into a Handler.
type BadRequestHandler struct{}

func (BadRequestHandler) HandleBadRequest(c *HandleContext, err error) *http.Response {
	c.Logger().Warn("failed to parse request", "error", err)
	return http.NewResponse(status.BadRequest, http.WithBody("Failed to parse request"))
}

// HandleFunc is a Handler answering bad requests with [BadRequestHandler].
type HandleFunc func(c *HandleContext, request *http.Request) *http.Response

var _ Handler = HandleFunc(nil)

func (f HandleFunc) HandleRequest(c *HandleContext, request *http.Request) *http.Response {
	return f(c, request)
}

func (f HandleFunc) HandleBadRequest(c *HandleContext, err error) *http.Response {
	return BadRequestHandler{}.HandleBadRequest(c, err)
}

type HandleContext struct {
	ctx context.Context

	id         string
	remoteAddr transport.Addr

	logger *slog.Logger
}

func (c *HandleContext) Context() context.Context   { return c.ctx }
func (c *HandleContext) ID() string                 { return c.id }
func (c *HandleContext) RemoteAddr() transport.Addr { return c.remoteAddr }
func (c *HandleContext) Logger() *slog.Logger       { return c.logger }

var ErrNilResponse = errors.New("nil response is forbidden")

// doHandle dispatches to h, turning a panic into an error.
// The request is answered by HandleBadRequest when parseErr is non-nil.
func (c *HandleContext) doHandle(h Handler, request *http.Request, parseErr error) (res *http.Response, err error) {
	defer func() {
		if e := recover(); e != nil {
			res, err = nil, errors.Errorf("handler panicked: %v", e)
		}
	}()

	if parseErr != nil {
		res = h.HandleBadRequest(c, parseErr)
	} else {
		res = h.HandleRequest(c, request)
	}

	if res == nil {
		return nil, ErrNilResponse
	}

	return res, nil
}
