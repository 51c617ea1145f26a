// Package ownership holds the single authorization predicate applied to every
// owner-scoped record before it is read or mutated.
package ownership

import "github.com/google/uuid"

// Resource is any record that belongs to exactly one authenticated subject.
type Resource interface {
	// Owner returns the id of the subject that created the record.
	Owner() uuid.UUID
}

// Allowed reports whether the given subject may access the resource.
// Access is granted only on exact owner match; a nil subject id never matches.
func Allowed(r Resource, subject uuid.UUID) bool {
	if subject == uuid.Nil {
		return false
	}
	return r.Owner() == subject
}
