package goalserve

import (
	"errors"
	"fmt"
)

var ErrMaxRetriesExceeded = errors.New("max retries exceeded")

type Kind int

const (
	KindTimeout Kind = iota + 1
	KindHTTP
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindHTTP:
		return "http"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// RequestError describes why a single attempt failed.
type RequestError struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	case KindTimeout:
		return fmt.Sprintf("request timed out: %v", e.Err)
	default:
		return fmt.Sprintf("error making request: %v", e.Err)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// FetchError is returned once every attempt has failed.
type FetchError struct {
	Attempts int
	Last     *RequestError
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s after %d attempts: %v", ErrMaxRetriesExceeded, e.Attempts, e.Last)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrMaxRetriesExceeded, e.Last}
}
