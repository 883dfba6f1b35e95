// Package faults defines the error taxonomy shared by the discovery and
// capture pipeline. Internal layers return real errors tagged with one of
// these kinds; the public facade collapses them to empty results and logs.
package faults

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a window or handle no longer exists.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied means ownership validation failed or the OS denied
	// a handle operation.
	ErrAccessDenied = errors.New("access denied")

	// ErrTimeout means a bounded operation exceeded its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrResourceExhausted means a capture was rejected before allocation
	// due to memory pressure.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrMalformed means the window system returned something unexpected,
	// e.g. zero or negative bounds.
	ErrMalformed = errors.New("malformed")
)

// kinds in the order Kind checks them.
var kinds = []error{ErrNotFound, ErrAccessDenied, ErrTimeout, ErrResourceExhausted, ErrMalformed}

// Wrap tags err with kind so callers can test it with errors.Is. A nil err
// returns the bare kind.
func Wrap(kind error, err error) error {
	if err == nil {
		return kind
	}
	return fmt.Errorf("%w: %v", kind, err)
}

// Wrapf tags a formatted error with kind.
func Wrapf(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{kind}, args...)...)
}

// Kind returns the taxonomy sentinel carried by err, or nil if err carries
// none.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
