package dto

import (
	"mime/multipart"
	"time"
)

type UploadDocumentRequest struct {
	Meta UploadMeta
	File multipart.File
}

type UploadMeta struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description"`
}

type UpdateDocumentRequest struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	Description *string `json:"description"`
}

type DocumentResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Description    string    `json:"description"`
	CurrentVersion int       `json:"version"`
	CreatedAt      time.Time `json:"created"`
	UpdatedAt      time.Time `json:"updated"`
}

type RevisionResponse struct {
	ID          string    `json:"id"`
	Version     int       `json:"version"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created"`
}
