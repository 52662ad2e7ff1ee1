package models

import (
	"errors"
	"fmt"
)

// TransportError means the source could not be reached (connection, DNS, timeout).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("could not reach source (%s): %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError means the source answered with a non-2xx status.
type HTTPError struct {
	Op     string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("source returned error status %d (%s)", e.Status, e.Op)
}

// DecodeError means the response body was not the expected JSON shape.
type DecodeError struct {
	Op     string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("response was not valid data (%s): %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("response was not valid data (%s): %s", e.Op, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// InvalidArgument is a caller contract violation.
type InvalidArgument struct {
	Field  string
	Reason string
}

func (e *InvalidArgument) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Reason)
}

// NewInvalidArgument builds an InvalidArgument error.
func NewInvalidArgument(field, reason string) error {
	return &InvalidArgument{Field: field, Reason: reason}
}

// IsSourceError reports whether err came from the external market data source.
func IsSourceError(err error) bool {
	var te *TransportError
	var he *HTTPError
	var de *DecodeError
	return errors.As(err, &te) || errors.As(err, &he) || errors.As(err, &de)
}

// ErrorKind returns a short label for metrics and logs.
func ErrorKind(err error) string {
	var te *TransportError
	var he *HTTPError
	var de *DecodeError
	var ia *InvalidArgument
	switch {
	case err == nil:
		return ""
	case errors.As(err, &te):
		return "transport"
	case errors.As(err, &he):
		return "http_status"
	case errors.As(err, &de):
		return "decode"
	case errors.As(err, &ia):
		return "invalid_argument"
	default:
		return "internal"
	}
}
