package http

import "fmt"

type Method uint8

const (
	MethodGet Method = iota
	MethodDelete
	MethodPost
	MethodPut
	MethodHead
	MethodConnect
	MethodOptions
	MethodTrace
	MethodPatch
)

// Methods lists every supported method, ordered by value.
var Methods = []Method{
	MethodGet, MethodDelete, MethodPost, MethodPut, MethodHead,
	MethodConnect, MethodOptions, MethodTrace, MethodPatch,
}

// InvalidMethodError reports a request method token outside of [Methods].
type InvalidMethodError struct{ Token string }

func (e InvalidMethodError) Error() string { return "InvalidMethod: " + e.Token }

// ParseMethod matches token against the supported methods.
// Matching is exact: no trimming, no case folding.
func ParseMethod(token string) (Method, error) {
	switch token {
	case "GET":
		return MethodGet, nil
	case "DELETE":
		return MethodDelete, nil
	case "POST":
		return MethodPost, nil
	case "PUT":
		return MethodPut, nil
	case "HEAD":
		return MethodHead, nil
	case "CONNECT":
		return MethodConnect, nil
	case "OPTIONS":
		return MethodOptions, nil
	case "TRACE":
		return MethodTrace, nil
	case "PATCH":
		return MethodPatch, nil
	}

	return 0, InvalidMethodError{Token: token}
}

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodDelete:
		return "DELETE"
	case MethodPost:
		return "POST"
	case MethodPut:
		return "PUT"
	case MethodHead:
		return "HEAD"
	case MethodConnect:
		return "CONNECT"
	case MethodOptions:
		return "OPTIONS"
	case MethodTrace:
		return "TRACE"
	case MethodPatch:
		return "PATCH"
	}

	return fmt.Sprintf("Method(%d)", uint8(m))
}
