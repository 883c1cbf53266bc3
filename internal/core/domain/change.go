package domain

// ChangeType represents the type of document change.
type ChangeType int

const (
	// ChangeCreated indicates a new document.
	ChangeCreated ChangeType = iota

	// ChangeModified indicates an edited document.
	ChangeModified

	// ChangeDeleted indicates a removed document.
	ChangeDeleted

	// ChangeRenamed indicates a document that moved to a new path.
	ChangeRenamed
)

// String returns the string representation.
func (t ChangeType) String() string {
	switch t {
	case ChangeCreated:
		return "created"
	case ChangeModified:
		return "modified"
	case ChangeDeleted:
		return "deleted"
	case ChangeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// DocumentChange represents a change event delivered by a watcher.
type DocumentChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Ref is the affected document. For deletions only Ref.Path is set;
	// for renames it carries the new identity.
	Ref DocumentRef

	// OldPath is the previous path for ChangeRenamed, empty otherwise.
	OldPath string
}
