// Package http implements parsing and serialization of Hypertext Transfer Protocol (HTTP/1.1)
// messages held in a single byte buffer.
//
// Persistent connections, chunked bodies, header continuation lines and percent-decoding are not
// supported. Parsed requests are read-only views over the buffer they were parsed from.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc9110
//
// - https://datatracker.ietf.org/doc/html/rfc9112
package http
