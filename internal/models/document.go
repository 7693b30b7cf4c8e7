package models

import "time"

type Document struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Description    string    `json:"description"`
	BlobLocator    string    `json:"blob_locator"`
	CurrentVersion int       `json:"current_version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Revision is an immutable snapshot of a document taken before a
// versioning update. Version numbers per document form 1..N with no gaps.
type Revision struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	Version     int       `json:"version"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Description string    `json:"description"`
	BlobLocator string    `json:"blob_locator"`
	CreatedAt   time.Time `json:"created_at"`
}

// DocumentPatch carries the optional new field values of an update.
// Nil means "leave unchanged".
type DocumentPatch struct {
	Title       *string
	Content     *string
	Description *string
	BlobLocator *string
}
