package http

import (
	"strings"
	"unicode/utf8"

	"github.com/indigo-web/utils/uf"
)

// Request is a parsed HTTP/1.1 request.
//
// Every text field is a view into the buffer given to [ParseRequest]; nothing is copied.
// The buffer must stay alive and unmodified for as long as the Request is in use.
type Request struct {
	method Method
	path   string

	rawQuery string
	query    *QueryString

	headers Headers
	body    string
}

// ParseRequest parses a request held in buf:
//
//	METHOD SP PATH['?'QUERY] SP "HTTP/1.1" CRLF *(NAME ": " VALUE CRLF) CRLF [BODY]
//
// buf may carry trailing NUL padding (e.g. an oversized read buffer), which is ignored.
// The returned error is always a [*ParseError].
func ParseRequest(buf []byte) (*Request, error) {
	if !utf8.Valid(buf) {
		return nil, newParseError(InvalidEncoding, "")
	}

	text := strings.TrimRight(uf.B2S(buf), string(fill))
	text = strings.TrimSpace(text)

	line, tail := text, ""
	if idx := strings.Index(text, CRLF); idx >= 0 {
		line, tail = text[:idx], text[idx:]
	}

	methodToken, pathAndQuery, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	method, err := ParseMethod(methodToken)
	if err != nil {
		return nil, newParseError(InvalidMethod, methodToken)
	}

	r := &Request{method: method}

	path, rawQuery, hasQuery := strings.Cut(pathAndQuery, "?")
	r.path = path
	if hasQuery {
		q := ParseQueryString(rawQuery)
		r.rawQuery, r.query = rawQuery, &q
	}

	block, body := splitHeadersAndBody(tail)
	if r.headers, err = ParseHeaders(block); err != nil {
		return nil, newParseError(InvalidHeaders, block)
	}
	r.body = body

	return r, nil
}

// parseRequestLine splits line into its three words and checks the protocol.
func parseRequestLine(line string) (method, target string, err error) {
	words := [3]string{}
	rest := line
	for i := range words {
		var ok bool
		if words[i], rest, ok = nextWord(rest); !ok {
			return "", "", newParseError(InvalidRequest, rest)
		}
	}

	if extra := strings.TrimSpace(rest); extra != "" {
		return "", "", newParseError(InvalidRequest, extra)
	}

	if words[2] != Protocol {
		return "", "", newParseError(InvalidProtocol, words[2])
	}

	return words[0], words[1], nil
}

// splitHeadersAndBody splits what follows the request line at the first blank line.
// tail is either empty or starts with the CRLF ending the request line.
// Without a blank line, all of tail is the header block.
func splitHeadersAndBody(tail string) (block, body string) {
	idx := strings.Index(tail, BlankLine)
	if idx < 0 {
		return strings.TrimPrefix(tail, CRLF), ""
	}

	return strings.TrimPrefix(tail[:idx], CRLF), tail[idx+len(BlankLine):]
}

func (r *Request) Method() Method { return r.method }

// Path returns the request target up to the first '?', without percent-decoding.
func (r *Request) Path() string { return r.path }

// Query returns a copy of the parsed query string. ok is false when the target has no '?'.
func (r *Request) Query() (q QueryString, ok bool) {
	if r.query == nil {
		return QueryString{}, false
	}
	return r.query.Clone(), true
}

// RawQuery returns the text after the first '?' of the target.
func (r *Request) RawQuery() string { return r.rawQuery }

// Headers returns a copy of the request headers. Changing it leaves r unchanged.
func (r *Request) Headers() Headers { return r.headers.Clone() }

// Body returns the text after the blank line. An empty body is reported as absent.
func (r *Request) Body() (body string, ok bool) { return r.body, r.body != "" }

// String reconstructs the request in wire format.
// It is not guaranteed to be byte-identical to the parsed input.
func (r *Request) String() string {
	var sb strings.Builder

	sb.WriteString(r.method.String())
	sb.WriteByte(SP)
	sb.WriteString(r.path)
	if r.query != nil {
		sb.WriteByte('?')
		sb.WriteString(r.rawQuery)
	}
	sb.WriteByte(SP)
	sb.WriteString(Protocol)

	if !r.headers.IsEmpty() {
		sb.WriteString(CRLF)
		sb.WriteString(r.headers.String())
	}

	if body, ok := r.Body(); ok {
		sb.WriteString(BlankLine)
		sb.WriteString(body)
	}

	return sb.String()
}
