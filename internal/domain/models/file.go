package models

import (
	"time"
)

type File struct {
	ID          string    `json:"id" db:"id"`
	AccountID   string    `json:"account_id" db:"account_id"`
	FolderID    string    `json:"folder_id" db:"folder_id"` // always references an existing folder
	Name        string    `json:"name" db:"name"`
	ContentType string    `json:"content_type" db:"content_type"` // derived from extension at upload, stored
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	StorageKey  string    `json:"-" db:"storage_key"` // opaque blob locator, never exposed
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
