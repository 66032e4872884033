package irmaseal

import (
	"errors"
	"fmt"
)

var (
	// ErrNotIRMASEAL indicates the input does not begin with the IRMAseal
	// prelude and is therefore not a sealed stream at all.
	ErrNotIRMASEAL = errors.New("irmaseal: not an irmaseal stream")

	// ErrIncorrectVersion is reserved for a future version skew; the current
	// format recognizes a single version tag.
	ErrIncorrectVersion = errors.New("irmaseal: incorrect version")

	// ErrFormatViolation indicates a bounded-length invariant was violated,
	// metadata failed to decode, the IBE ciphertext bytes were malformed, or
	// the stream ended before a full MAC tail was available.
	ErrFormatViolation = errors.New("irmaseal: format violation")

	// ErrConstraintViolation indicates an Identity attribute exceeded its
	// bounded length, contained invalid UTF-8, or carried an illegal
	// timestamp.
	ErrConstraintViolation = errors.New("irmaseal: constraint violation")

	// ErrRead and ErrWrite categorize an underlying stream I/O failure; the
	// original error from the reader/writer is still reachable via
	// errors.Is/errors.As (see ReadError/WriteError).
	ErrRead  = errors.New("irmaseal: read error")
	ErrWrite = errors.New("irmaseal: write error")
)

// Error wraps an underlying error with the operation that produced it, so
// callers can both print a useful message and errors.Is/errors.As through to
// the sentinel or I/O error beneath.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("irmaseal.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func errorf(op string, err error) error {
	return &Error{Op: op, Err: err}
}

// ReadError wraps an I/O failure encountered while reading a sealed or
// plaintext stream. The underlying error is carried verbatim: both
// errors.Is(result, ErrRead) and errors.Is(result, err) hold.
func ReadError(op string, err error) error {
	return errorf(op, fmt.Errorf("%w: %w", ErrRead, err))
}

// WriteError wraps an I/O failure encountered while writing a sealed or
// plaintext stream. The underlying error is carried verbatim.
func WriteError(op string, err error) error {
	return errorf(op, fmt.Errorf("%w: %w", ErrWrite, err))
}
