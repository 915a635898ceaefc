package linkgraph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a referenced document does not exist in the
// project.
var ErrNotFound = errors.New("document not found")

// ErrLinkNotFound is returned by RemoveLink when the expected denormalized
// link record is absent on either endpoint. This indicates a consistency
// bug upstream and is treated as a hard error, never silently ignored.
var ErrLinkNotFound = errors.New("link record not found")

// ErrDuplicateLink is returned when the requested edge already exists
// between the two documents.
var ErrDuplicateLink = errors.New("link already exists between documents")

// CircularDependencyError rejects a link that would make a document
// (transitively) depend on itself. The graph is left unchanged.
type CircularDependencyError struct {
	// SourceID and TargetID are the endpoints of the rejected link.
	SourceID uuid.UUID
	TargetID uuid.UUID

	// Path is the chain of document numbers that already leads from the
	// prospective later document back to the earlier one.
	Path []string
}

// Error implements the error interface.
func (e *CircularDependencyError) Error() string {
	if len(e.Path) == 0 {
		return "circular dependency: a document cannot depend on itself"
	}
	return fmt.Sprintf("circular dependency: link would close the chain %s",
		strings.Join(e.Path, " -> "))
}
