package http

import (
	"io"
	"strings"

	"http-server/application/http/status"
)

// Response is an outbound message. Unlike [Request] it owns its content.
type Response struct {
	Status status.Code

	headers *Headers
	body    *string
}

type ResponseOption func(*Response)

// WithHeaders sets a copy of h, so later changes to h do not reach the Response.
func WithHeaders(h Headers) ResponseOption {
	return func(r *Response) {
		c := h.Clone()
		r.headers = &c
	}
}

func WithBody(body string) ResponseOption {
	return func(r *Response) { r.body = &body }
}

func NewResponse(code status.Code, opts ...ResponseOption) *Response {
	r := &Response{Status: code}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Response) Headers() (h Headers, ok bool) {
	if r.headers == nil {
		return Headers{}, false
	}
	return r.headers.Clone(), true
}

func (r *Response) Body() (body string, ok bool) {
	if r.body == nil {
		return "", false
	}
	return *r.body, true
}

// Send writes the response to w in a single write:
//
//	"HTTP/1.1 " STATUS CRLF CRLF BODY
//
// Headers given with [WithHeaders] are not written.
// An error from w is returned as is.
func (r *Response) Send(w io.Writer) error {
	_, err := r.WriteTo(w)
	return err
}

// WriteTo implements [io.WriterTo]. See [Response.Send].
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.text())
	return int64(n), err
}

func (r *Response) text() string {
	body, _ := r.Body()

	var sb strings.Builder
	sb.Grow(len(Protocol) + len(BlankLine) + len(body) + 16)
	sb.WriteString(Protocol)
	sb.WriteByte(SP)
	sb.WriteString(r.Status.String())
	// TODO: write r.headers here once callers are ready for header blocks on the wire.
	sb.WriteString(BlankLine)
	sb.WriteString(body)

	return sb.String()
}
