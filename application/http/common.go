package http

const (
	CR   byte = '\r'
	LF   byte = '\n'
	SP   byte = ' '
	HTAB byte = '	'
	VT   byte = 0x0B
	FF   byte = 0x0C
)

const (
	CRLF      = "\r\n"
	BlankLine = CRLF + CRLF

	// Protocol is the only protocol version this package accepts and emits.
	Protocol = "HTTP/1.1"

	// fill is what unused capacity of a read buffer holds.
	fill = '\x00'
)

// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.3
func isWhitespace(c byte) bool {
	switch c {
	case SP, HTAB, CR, LF, VT, FF:
		return true
	}
	return false
}

// nextWord skips a leading run of whitespace and returns the following non-whitespace run with
// everything after it. ok is false when s holds nothing but whitespace.
func nextWord(s string) (word, rest string, ok bool) {
	start := 0
	for start < len(s) && isWhitespace(s[start]) {
		start++
	}
	if start == len(s) {
		return "", s, false
	}

	end := start
	for end < len(s) && !isWhitespace(s[end]) {
		end++
	}

	return s[start:end], s[end:], true
}
