package http

import (
	"iter"
	"strings"
)

// QueryString is the multimap of a request target's query component,
// e.g. "a=1&b=2" for "/search?a=1&b=2".
// Keys and values are kept as they appear: no percent-decoding is done.
type QueryString struct{ m multimap }

// ParseQueryString parses fragment. Every input is a valid query string.
//
// Pairs are separated by '&'. A pair is split on its first '=' only,
// so "e===" maps e to "==". A pair without '=' maps to the empty value.
func ParseQueryString(fragment string) QueryString {
	q := QueryString{m: newMultimap(strings.Count(fragment, "&") + 1)}

	for pair := range strings.SplitSeq(fragment, "&") {
		key, value, _ := strings.Cut(pair, "=")
		q.m.add(key, value)
	}

	return q
}

// Clone returns a copy that does not share storage with q.
func (q *QueryString) Clone() QueryString { return QueryString{m: q.m.clone()} }

func (q *QueryString) Get(key string) (Value, bool) { return q.m.get(key) }

// Len returns the number of distinct keys.
func (q *QueryString) Len() int { return q.m.len() }

// All iterates over the keys in the order they were first seen.
func (q *QueryString) All() iter.Seq2[string, Value] { return q.m.all() }

func (q QueryString) String() string { return q.m.format("=", "&") }
