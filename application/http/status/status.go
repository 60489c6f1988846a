// Package status defines the response status codes a server can answer with.
package status

import "strconv"

type Code uint16

const (
	Ok         Code = 200
	BadRequest Code = 400
	NotFound   Code = 404
)

// Codes lists every supported code.
var Codes = []Code{Ok, BadRequest, NotFound}

// FromCode looks up a supported code by its number.
func FromCode(code uint16) (c Code, ok bool) {
	switch c := Code(code); c {
	case Ok, BadRequest, NotFound:
		return c, true
	}
	return 0, false
}

func (c Code) ReasonPhrase() string {
	switch c {
	case Ok:
		return "Ok"
	case BadRequest:
		return "Bad Request"
	case NotFound:
		return "Not Found"
	}
	return ""
}

// String renders the status line part after the protocol, e.g. "200 Ok".
func (c Code) String() string {
	return strconv.FormatUint(uint64(c), 10) + " " + c.ReasonPhrase()
}
