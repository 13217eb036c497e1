package claims

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when a claim does not exist or the caller is
// not scoped to it. The two cases are deliberately merged so that an
// unassigned reviewer cannot probe for claim existence.
var ErrNotFound = errors.New("claim not found or access denied")

// ErrForbidden is returned when the caller's role does not permit the
// requested operation at all, independent of any particular claim.
var ErrForbidden = errors.New("operation not permitted")

// ValidationError reports malformed or missing input with field-level
// detail.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// InvalidAssigneeError reports an assignment target that does not exist
// or does not hold the reviewer role.
type InvalidAssigneeError struct {
	ReviewerID string
}

func (e *InvalidAssigneeError) Error() string {
	return fmt.Sprintf("invalid reviewer ID %q or user is not a reviewer", e.ReviewerID)
}

// DocumentError reports a blob or metadata write that failed mid-batch.
// Filename is the original name of the file that failed; everything the
// batch had already stored is compensated before this error surfaces.
type DocumentError struct {
	Filename string
	Err      error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("could not store document %q: %v", e.Filename, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// TransactionError reports a unit of work that could not commit after
// the state machine had accepted the transition. The claim is unchanged
// because the transaction rolled back.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("claim transaction failed: %v", e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }
