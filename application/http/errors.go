package http

import (
	"fmt"

	"github.com/pkg/errors"
)

type ParseErrorKind uint8

const (
	InvalidEncoding ParseErrorKind = iota
	InvalidRequest
	InvalidProtocol
	InvalidMethod
	InvalidHeaders
)

var (
	ErrInvalidEncoding = errors.New("invalid encoding")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidProtocol = errors.New("invalid protocol")
	ErrInvalidMethod   = errors.New("invalid method")
	ErrInvalidHeaders  = errors.New("invalid headers")
)

func (k ParseErrorKind) sentinel() error {
	switch k {
	case InvalidEncoding:
		return ErrInvalidEncoding
	case InvalidRequest:
		return ErrInvalidRequest
	case InvalidProtocol:
		return ErrInvalidProtocol
	case InvalidMethod:
		return ErrInvalidMethod
	case InvalidHeaders:
		return ErrInvalidHeaders
	}
	return nil
}

func (k ParseErrorKind) String() string {
	switch k {
	case InvalidEncoding:
		return "Invalid Encoding"
	case InvalidRequest:
		return "Invalid Request"
	case InvalidProtocol:
		return "Invalid Protocol"
	case InvalidMethod:
		return "Invalid Method"
	case InvalidHeaders:
		return "Invalid Headers"
	}
	return fmt.Sprintf("ParseErrorKind(%d)", uint8(k))
}

// ParseError classifies why a buffer could not be parsed into a [Request].
// Text holds the offending part of the input; it is empty for InvalidEncoding.
//
// ParseError unwraps to the sentinel of its kind:
//
//	errors.Is(err, http.ErrInvalidMethod)
type ParseError struct {
	Kind ParseErrorKind
	Text string
}

func (e *ParseError) Error() string {
	if e.Kind == InvalidEncoding {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Text
}

func (e *ParseError) Unwrap() error { return e.Kind.sentinel() }

func newParseError(kind ParseErrorKind, text string) *ParseError {
	return &ParseError{Kind: kind, Text: text}
}
