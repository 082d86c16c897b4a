package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedData is matched by every *MalformedDataError.
	ErrMalformedData = errors.New("malformed expense data")
	// ErrIO is matched by every *IOError.
	ErrIO = errors.New("expense storage i/o failure")
)

// MalformedDataError reports persisted content that does not decode into
// expense records. Index is the offending record position, or -1 when the
// document as a whole could not be parsed.
type MalformedDataError struct {
	Path  string
	Index int
	Err   error
}

func (e *MalformedDataError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed expense data in %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("malformed expense data in %s at record %d: %v", e.Path, e.Index, e.Err)
}

func (e *MalformedDataError) Unwrap() error { return e.Err }

func (e *MalformedDataError) Is(target error) bool { return target == ErrMalformedData }

// IOError reports a storage location that could not be read or written for
// a reason other than being absent.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }
