package magic

import (
	"errors"
	"fmt"

	"github.com/gobeaver/magic/entries"
)

// Common errors
var (
	// ErrInvalidSource is returned when a rule source is neither a regular
	// file nor a directory, or does not exist.
	ErrInvalidSource = errors.New("magic source is not a file or directory")

	// ErrMissingBuiltInDatabase is returned when the bundled database
	// cannot be found.
	ErrMissingBuiltInDatabase = errors.New("built-in magic database not found")

	// ErrNotLoaded is returned by queries on a Magic that was never
	// successfully constructed.
	ErrNotLoaded = errors.New("magic files have not been loaded")

	// ErrIO wraps read failures of rule sources and queried files.
	ErrIO = errors.New("magic i/o failure")

	// ErrSyntax marks a malformed rule line. Loading never fails because
	// of it; the line is skipped.
	ErrSyntax = entries.ErrSyntax
)

// SourceError records an error and the operation and path that caused it.
// Kind is one of the sentinel errors above; Err is the underlying cause.
type SourceError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

// Unwrap returns both the kind and the cause so errors.Is matches either.
func (e *SourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsInvalidSource reports whether err indicates an unusable rule source
func IsInvalidSource(err error) bool {
	return errors.Is(err, ErrInvalidSource)
}

// IsNotLoaded reports whether err indicates a query on an unloaded Magic
func IsNotLoaded(err error) bool {
	return errors.Is(err, ErrNotLoaded)
}

// IsIO reports whether err indicates a read failure
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}
