package http

import (
	"iter"
	"strings"
)

const fieldSeparator = ": "

// HeadersError reports a header block containing a line without the ": " separator.
// The whole block is rejected.
type HeadersError struct{ Fragment string }

func (e HeadersError) Error() string { return "Error parsing headers: " + e.Fragment }

// Headers maps field names to their values.
// Names are case-sensitive and never normalized.
type Headers struct{ m multimap }

func NewHeaders() Headers { return Headers{m: newMultimap(0)} }

// ParseHeaders parses CRLF separated "Name: Value" lines.
//
// Each line is trimmed of surrounding whitespace and split on its first ": ".
// A repeated name collects its values in source order.
// An empty fragment yields empty headers.
func ParseHeaders(fragment string) (Headers, error) {
	if fragment == "" {
		return NewHeaders(), nil
	}

	h := Headers{m: newMultimap(strings.Count(fragment, CRLF) + 1)}
	for line := range strings.SplitSeq(fragment, CRLF) {
		line = strings.TrimSpace(line)

		name, value, found := strings.Cut(line, fieldSeparator)
		if !found {
			return Headers{}, HeadersError{Fragment: fragment}
		}

		h.m.add(name, value)
	}

	return h, nil
}

// Clone returns a copy that does not share storage with h.
func (h *Headers) Clone() Headers { return Headers{m: h.m.clone()} }

// Add appends value to the values of name.
func (h *Headers) Add(name, value string) { h.m.add(name, value) }

func (h *Headers) Get(name string) (Value, bool) { return h.m.get(name) }

// Len returns the number of distinct names.
func (h *Headers) Len() int { return h.m.len() }

func (h *Headers) IsEmpty() bool { return h.m.len() == 0 }

// All iterates over the names in the order they were first seen.
func (h *Headers) All() iter.Seq2[string, Value] { return h.m.all() }

// String renders one "Name: Value" line per value, joined by CRLF.
// There is no trailing CRLF.
func (h Headers) String() string { return h.m.format(fieldSeparator, CRLF) }
