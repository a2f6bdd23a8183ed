package snapshot

import (
	"errors"
	"fmt"

	"github.com/hupe1980/agentrecall/core"
)

var (
	// ErrNotFound is returned when no snapshot exists at the given path.
	ErrNotFound = errors.New("snapshot not found")
)

// MalformedError reports a snapshot entry that failed required-field
// validation and could not be recovered. It carries the kind and id of the
// offending entry so callers can locate it in the document.
type MalformedError struct {
	Kind   core.Kind
	ID     string
	Reason string
}

// Error implements the error interface.
func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed %s entry %q: %s", e.Kind, e.ID, e.Reason)
}
