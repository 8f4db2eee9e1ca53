package repositories

import (
	"errors"
	"strings"
)

// Sentinel failures shared by all repositories. Callers match with
// errors.Is; any repository error that is neither one of these nor a
// *ValidationError is a storage fault and may be retried.
var (
	// ErrNotFound means the requested record does not exist, or the
	// supplied identifier is not a syntactically valid ObjectID.
	ErrNotFound = errors.New("record not found")

	// ErrForbidden means the acting user does not own the target record.
	ErrForbidden = errors.New("not the owner of this record")

	// ErrInvalidInput means an operation argument was malformed.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError carries the human-readable rule violations for a write
// rejected before reaching storage. No partial write occurs when it is
// returned.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}
