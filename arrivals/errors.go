package arrivals

import (
	"fmt"
)

// NetworkError reports a request that never produced a usable HTTP response:
// connection failures, timeouts, or a body that could not be read.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("arrivals: request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a payload that could not be decoded.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("arrivals: parse %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
