package kamar

import (
	"fmt"
	"net/http"
)

// TransportError is returned when the portal could not be reached or
// answered with a status other than 200.
//
// StatusCode is 0 when no response was received, in which case Err holds
// the reason.
type TransportError struct {
	Url        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("unable to connect to the KAMAR portal at %s: %v", e.Url, e.Err)
	}
	return fmt.Sprintf(
		"unable to connect to the KAMAR portal at %s: status %d %s",
		e.Url, e.StatusCode, http.StatusText(e.StatusCode),
	)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError is returned when the portal answered with something that
// is not a well-formed XML document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse notices response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
