package sqladmin

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is matched by every validation failure: malformed
	// identifiers, empty SQL, missing columns or delete conditions.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when a named table does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMultipleStatements is returned by ExecuteQuery for text holding more
	// than one statement. It is an engine error, not a client error, and
	// nothing is executed.
	ErrMultipleStatements = errors.New("You can only execute one statement at a time.")
)

// requestError carries a caller-facing message while still matching one of
// the sentinel errors above via errors.Is.
type requestError struct {
	kind error
	msg  string
}

func (e *requestError) Error() string { return e.msg }

func (e *requestError) Unwrap() error { return e.kind }

// invalidArgument returns an error whose text is exactly the formatted message.
func invalidArgument(format string, args ...any) error {
	return &requestError{kind: ErrInvalidArgument, msg: fmt.Sprintf(format, args...)}
}

// notFound returns an error whose text is exactly the formatted message.
func notFound(format string, args ...any) error {
	return &requestError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// IsClientError reports whether err was caused by the request rather than
// the engine. Client errors carry a message safe to return verbatim.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrNotFound)
}
