package http

import (
	"iter"
	"slices"
	"strings"
)

// Value holds what a multimap key maps to: either a single value
// or, once the key has been seen more than once, every value in source order.
type Value struct {
	single   string
	multiple []string
}

func Single(value string) Value { return Value{single: value} }

// Multiple creates a multi-valued Value.
func Multiple(values ...string) Value {
	clone := make([]string, len(values))
	copy(clone, values)
	return Value{multiple: clone}
}

func (v Value) IsMultiple() bool { return v.multiple != nil }

// Single returns the value of a single-valued Value.
func (v Value) Single() (value string, ok bool) {
	if v.IsMultiple() {
		return "", false
	}
	return v.single, true
}

// Multiple returns the values of a multi-valued Value.
func (v Value) Multiple() (values []string, ok bool) {
	if !v.IsMultiple() {
		return nil, false
	}
	return slices.Clip(v.multiple), true
}

// First returns the earliest value, regardless of the variant.
// An empty multi-valued Value has no first value and yields "".
func (v Value) First() string {
	if v.IsMultiple() {
		if len(v.multiple) == 0 {
			return ""
		}
		return v.multiple[0]
	}
	return v.single
}

// Values returns every value in source order.
func (v Value) Values() []string {
	if v.IsMultiple() {
		return slices.Clip(v.multiple)
	}
	return []string{v.single}
}

func (v Value) String() string {
	if v.IsMultiple() {
		return "[" + strings.Join(v.multiple, ", ") + "]"
	}
	return v.single
}

// with merges value into v.
// Single becomes Multiple with the previous value first; Multiple appends.
func (v Value) with(value string) Value {
	if v.IsMultiple() {
		v.multiple = append(v.multiple, value)
		return v
	}
	return Value{multiple: []string{v.single, value}}
}

type multimap struct {
	values map[string]Value
	keys   []string // First-seen order, only used for formatting.
}

func newMultimap(sizeHint int) multimap {
	return multimap{values: make(map[string]Value, sizeHint)}
}

func (m *multimap) add(key, value string) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}

	existing, ok := m.values[key]
	if !ok {
		m.values[key] = Single(value)
		m.keys = append(m.keys, key)
		return
	}

	m.values[key] = existing.with(value)
}

func (m *multimap) get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// clone returns a deep copy, so adding to either side leaves the other unchanged.
func (m *multimap) clone() multimap {
	c := multimap{
		values: make(map[string]Value, len(m.values)),
		keys:   slices.Clone(m.keys),
	}
	for key, value := range m.values {
		if value.IsMultiple() {
			value.multiple = slices.Clone(value.multiple)
		}
		c.values[key] = value
	}
	return c
}

func (m *multimap) len() int { return len(m.values) }

func (m *multimap) all() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, key := range m.keys {
			if !yield(key, m.values[key]) {
				return
			}
		}
	}
}

// format renders every key-value pair as key+sep+value, joined by delim.
// A multi-valued key is rendered once per value.
func (m *multimap) format(sep, delim string) string {
	var sb strings.Builder
	for key, value := range m.all() {
		for _, v := range value.Values() {
			if sb.Len() > 0 {
				sb.WriteString(delim)
			}
			sb.WriteString(key)
			sb.WriteString(sep)
			sb.WriteString(v)
		}
	}
	return sb.String()
}
