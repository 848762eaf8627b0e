package dataaccess

import "fmt"

// NetworkError reports a transport failure: connection refused, timeout,
// unreadable body or unreadable file.
type NetworkError struct {
	Path string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: network error: %v", e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError reports a non-2xx response. Missing local files are reported as
// 404 so callers see the same failure for both sources.
type HTTPError struct {
	Path   string
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetch %s: http status %d", e.Path, e.Status)
}

// ParseError reports a body that is not well-formed JSON or does not have
// the expected shape.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("fetch %s: parse error: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
