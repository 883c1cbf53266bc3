package domain

import "time"

// DocumentRef identifies one searchable document and carries the metadata
// the engine indexes without reading the document's content.
type DocumentRef struct {
	// Path is the unique, immutable identity of the document within its
	// vault. All lifecycle operations address documents by path.
	Path string

	// Name is the human-readable display name, typically the base file
	// name without its extension.
	Name string

	// Size is the content length in bytes.
	Size int64

	// ModifiedAt is the last modification time.
	ModifiedAt time.Time
}

// IsZero reports whether the ref carries no identity.
func (r DocumentRef) IsZero() bool {
	return r.Path == ""
}
