package http

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	t.Run("request line only", func(t *testing.T) {
		r, err := ParseRequest([]byte("GET /search?name=abc&sort=1 HTTP/1.1\r\n\r\n"))
		require.NoError(t, err)

		assert.Equal(t, MethodGet, r.Method())
		assert.Equal(t, "/search", r.Path())
		assert.Equal(t, "name=abc&sort=1", r.RawQuery())

		q, ok := r.Query()
		require.True(t, ok)
		assert.Equal(t, map[string]Value{
			"name": Single("abc"),
			"sort": Single("1"),
		}, q.m.values)

		headers := r.Headers()
		assert.True(t, headers.IsEmpty())

		_, ok = r.Body()
		assert.False(t, ok)
	})

	t.Run("headers and body", func(t *testing.T) {
		input := "" +
			"POST /submit HTTP/1.1\r\n" +
			"Host: localhost\r\n" +
			"X-Tag: a\r\n" +
			"X-Tag: b\r\n" +
			"\r\n" +
			"HELLO"

		r, err := ParseRequest([]byte(input))
		require.NoError(t, err)

		assert.Equal(t, MethodPost, r.Method())
		assert.Equal(t, "/submit", r.Path())

		_, ok := r.Query()
		assert.False(t, ok)

		headers := r.Headers()
		assert.Equal(t, map[string]Value{
			"Host":  Single("localhost"),
			"X-Tag": Multiple("a", "b"),
		}, headers.m.values)

		body, ok := r.Body()
		require.True(t, ok)
		assert.Equal(t, "HELLO", body)
	})

	t.Run("body without headers", func(t *testing.T) {
		r, err := ParseRequest([]byte("PUT /x HTTP/1.1\r\n\r\nHELLO"))
		require.NoError(t, err)

		headers := r.Headers()
		assert.True(t, headers.IsEmpty())

		body, ok := r.Body()
		require.True(t, ok)
		assert.Equal(t, "HELLO", body)
	})

	t.Run("no blank line", func(t *testing.T) {
		r, err := ParseRequest([]byte("GET / HTTP/1.1\r\nHost: localhost\r\nAccept: */*"))
		require.NoError(t, err)

		headers := r.Headers()
		assert.Equal(t, 2, headers.Len())

		_, ok := r.Body()
		assert.False(t, ok)
	})

	t.Run("zero padded buffer", func(t *testing.T) {
		buf := make([]byte, 1024)
		copy(buf, "GET /hello HTTP/1.1\r\nHost: localhost\r\n\r\n")

		r, err := ParseRequest(buf)
		require.NoError(t, err)

		assert.Equal(t, "/hello", r.Path())
		headers := r.Headers()
		v, ok := headers.Get("Host")
		require.True(t, ok)
		assert.Equal(t, Single("localhost"), v)

		_, ok = r.Body()
		assert.False(t, ok)
	})

	t.Run("irregular whitespace in request line", func(t *testing.T) {
		r, err := ParseRequest([]byte("  GET \t /a?b   HTTP/1.1\r\n\r\n"))
		require.NoError(t, err)

		assert.Equal(t, MethodGet, r.Method())
		assert.Equal(t, "/a", r.Path())
		q, ok := r.Query()
		require.True(t, ok)
		v, ok := q.Get("b")
		require.True(t, ok)
		assert.Equal(t, Single(""), v)
	})

	t.Run("empty query", func(t *testing.T) {
		r, err := ParseRequest([]byte("GET /a? HTTP/1.1"))
		require.NoError(t, err)

		assert.Equal(t, "/a", r.Path())
		_, ok := r.Query()
		assert.True(t, ok)
	})

	t.Run("path keeps percent-encoding", func(t *testing.T) {
		r, err := ParseRequest([]byte("GET /a%20b?x=%41 HTTP/1.1"))
		require.NoError(t, err)

		assert.Equal(t, "/a%20b", r.Path())
		assert.Equal(t, "x=%41", r.RawQuery())
	})
}

func TestParseRequestZeroCopy(t *testing.T) {
	buf := []byte("GET /zero HTTP/1.1\r\nHost: localhost\r\n\r\nBODY")
	r, err := ParseRequest(buf)
	require.NoError(t, err)

	start := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	end := start + uintptr(len(buf))
	within := func(s string) bool {
		p := uintptr(unsafe.Pointer(unsafe.StringData(s)))
		return start <= p && p < end
	}

	assert.True(t, within(r.Path()))

	body, _ := r.Body()
	assert.True(t, within(body))

	headers := r.Headers()
	for name, value := range headers.All() {
		assert.True(t, within(name))
		assert.True(t, within(value.First()))
	}
}

func TestParseRequestErrors(t *testing.T) {
	testcases := []struct {
		desc     string
		input    []byte
		kind     ParseErrorKind
		sentinel error
		text     string
	}{
		{
			desc:     "invalid utf-8",
			input:    []byte("GET /\xff HTTP/1.1\r\n\r\n"),
			kind:     InvalidEncoding,
			sentinel: ErrInvalidEncoding,
		},
		{
			desc:     "empty buffer",
			input:    []byte{},
			kind:     InvalidRequest,
			sentinel: ErrInvalidRequest,
		},
		{
			desc:     "padding only",
			input:    make([]byte, 64),
			kind:     InvalidRequest,
			sentinel: ErrInvalidRequest,
		},
		{
			desc:     "missing protocol",
			input:    []byte("GET /\r\nHost: localhost\r\n\r\n"),
			kind:     InvalidRequest,
			sentinel: ErrInvalidRequest,
		},
		{
			desc:     "extra word",
			input:    []byte("GET / HTTP/1.1 extra\r\n\r\n"),
			kind:     InvalidRequest,
			sentinel: ErrInvalidRequest,
			text:     "extra",
		},
		{
			desc:     "older protocol",
			input:    []byte("GET /search?name=abc&sort=1 HTTP/1.0\r\n\r\n"),
			kind:     InvalidProtocol,
			sentinel: ErrInvalidProtocol,
			text:     "HTTP/1.0",
		},
		{
			desc:     "protocol checked before method",
			input:    []byte("BREW / HTTP/2\r\n\r\n"),
			kind:     InvalidProtocol,
			sentinel: ErrInvalidProtocol,
			text:     "HTTP/2",
		},
		{
			desc:     "unknown method",
			input:    []byte("BREW /pot HTTP/1.1\r\n\r\n"),
			kind:     InvalidMethod,
			sentinel: ErrInvalidMethod,
			text:     "BREW",
		},
		{
			desc:     "lowercase method",
			input:    []byte("get / HTTP/1.1\r\n\r\n"),
			kind:     InvalidMethod,
			sentinel: ErrInvalidMethod,
			text:     "get",
		},
		{
			desc:     "malformed header",
			input:    []byte("GET / HTTP/1.1\r\nHost: localhost\r\nX-Foo:bar\r\n\r\n"),
			kind:     InvalidHeaders,
			sentinel: ErrInvalidHeaders,
			text:     "Host: localhost\r\nX-Foo:bar",
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			r, err := ParseRequest(tc.input)
			require.Error(t, err)
			assert.Nil(t, r)

			assert.ErrorIs(t, err, tc.sentinel)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tc.kind, parseErr.Kind)
			assert.Equal(t, tc.text, parseErr.Text)
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	testcases := []struct {
		err      *ParseError
		expected string
	}{
		{err: newParseError(InvalidEncoding, ""), expected: "Invalid Encoding"},
		{err: newParseError(InvalidRequest, "GET"), expected: "Invalid Request: GET"},
		{err: newParseError(InvalidProtocol, "HTTP/1.0"), expected: "Invalid Protocol: HTTP/1.0"},
		{err: newParseError(InvalidMethod, "BREW"), expected: "Invalid Method: BREW"},
		{err: newParseError(InvalidHeaders, "X-Foo:bar"), expected: "Invalid Headers: X-Foo:bar"},
	}
	for _, tc := range testcases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestRequestString(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		expected string
	}{
		{
			desc:     "request line only",
			input:    "GET /search?name=abc&sort=1 HTTP/1.1\r\n\r\n",
			expected: "GET /search?name=abc&sort=1 HTTP/1.1",
		},
		{
			desc:     "headers and body",
			input:    "POST /submit HTTP/1.1\r\nHost: localhost\r\nX-Tag: a\r\nX-Tag: b\r\n\r\nHELLO",
			expected: "POST /submit HTTP/1.1\r\nHost: localhost\r\nX-Tag: a\r\nX-Tag: b\r\n\r\nHELLO",
		},
		{
			desc:     "body without headers",
			input:    "PUT /x HTTP/1.1\r\n\r\nHELLO",
			expected: "PUT /x HTTP/1.1\r\n\r\nHELLO",
		},
		{
			desc:     "irregular whitespace is normalized",
			input:    "GET   /a?b=1\tHTTP/1.1\r\n\r\n",
			expected: "GET /a?b=1 HTTP/1.1",
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			r, err := ParseRequest([]byte(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, r.String())
		})
	}
}

func TestRequestIsReadOnly(t *testing.T) {
	r, err := ParseRequest([]byte("GET /?a=1 HTTP/1.1\r\nHost: a\r\nHost: b\r\n\r\n"))
	require.NoError(t, err)

	headers := r.Headers()
	headers.Add("X-New", "v")
	headers.Add("Host", "c")

	q, ok := r.Query()
	require.True(t, ok)
	q.m.add("b", "2")
	q.m.add("a", "3")

	headers = r.Headers()
	assert.Equal(t, 1, headers.Len())
	host, _ := headers.Get("Host")
	assert.Equal(t, Multiple("a", "b"), host)

	q, _ = r.Query()
	assert.Equal(t, "a=1", q.String())
	assert.Equal(t, "GET /?a=1 HTTP/1.1\r\nHost: a\r\nHost: b", r.String())
}
