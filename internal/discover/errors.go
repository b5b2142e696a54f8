package discover

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks request validation failures. These are detected
// before any fetch; a request that fails validation is never partially
// processed.
var ErrInvalidInput = errors.New("invalid input")

// FetchError wraps a collaborator failure so callers can tell "could not
// search" apart from "found nothing" (which is a valid empty result).
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func invalidf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...)
}
