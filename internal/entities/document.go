package entities

import "time"

type Document struct {
	ID             string    `db:"id"`
	OwnerID        string    `db:"owner_id"`
	Title          string    `db:"title"`
	Content        string    `db:"content"`
	Description    string    `db:"description"`
	BlobLocator    string    `db:"blob_locator"`
	CurrentVersion int       `db:"current_version"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type Revision struct {
	ID          string    `db:"id"`
	DocumentID  string    `db:"document_id"`
	Version     int       `db:"version"`
	Title       string    `db:"title"`
	Content     string    `db:"content"`
	Description string    `db:"description"`
	BlobLocator string    `db:"blob_locator"`
	CreatedAt   time.Time `db:"created_at"`
}
