package diagnosis

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedSpec matches every *FormatError.
	ErrMalformedSpec = errors.New("unrecognized answer format")
	// ErrUnresolvedReference matches every *UnresolvedError.
	ErrUnresolvedReference = errors.New("unresolved dictionary reference")
)

// FormatError reports a serialized answer that matches none of the known
// prefixes, or carries an id that is not an integer.
type FormatError struct {
	Spec string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unknown format: %q: %s", e.Spec, e.Err)
	}
	return fmt.Sprintf("unknown format: %q", e.Spec)
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrMalformedSpec }

// UnresolvedError reports a lookup that returned nothing and no error.
type UnresolvedError struct {
	Spec string
	ID   int
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("%s: id %d not found (%q)", ErrUnresolvedReference, e.ID, e.Spec)
}

func (e *UnresolvedError) Is(target error) bool { return target == ErrUnresolvedReference }
