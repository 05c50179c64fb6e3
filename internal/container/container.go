// Package container converts between raw container bytes and the ir class
// graph. The rewrite engine never touches bytes itself; it goes through a
// Codec.
package container

import (
	"errors"
	"fmt"

	"github.com/whit3rabbit/dexmixer/internal/ir"
)

var (
	// ErrMalformed classifies input that is not a well-formed container.
	ErrMalformed = errors.New("malformed container")
	// ErrLimitExceeded classifies output that does not fit the container's
	// index limits.
	ErrLimitExceeded = errors.New("container limit exceeded")
)

// Codec parses and serializes one container format.
type Codec interface {
	// Decode parses data. Failures are reported as *ParseError.
	Decode(data []byte) (*ir.File, error)
	// Encode serializes f. Failures are reported as *SerializeError.
	Encode(f *ir.File) ([]byte, error)
}

// ParseError reports input that could not be parsed.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "parse error: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// SerializeError reports a rewritten class graph that could not be encoded.
type SerializeError struct {
	Err error
}

func (e *SerializeError) Error() string { return "serialize error: " + e.Err.Error() }

func (e *SerializeError) Unwrap() error { return e.Err }

func malformed(format string, args ...interface{}) error {
	return &ParseError{Err: fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))}
}
