package models

import (
	"time"
)

type Folder struct {
	ID        string    `json:"id" db:"id"`
	AccountID string    `json:"account_id" db:"account_id"`
	ParentID  *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Tree represents the materialized folder/file hierarchy for an account
type Tree struct {
	Folders []*FolderNode `json:"folders"`
}

// FolderNode is a folder in the tree with nested children.
// Folders and Files are view fields rebuilt on every materialization,
// never persisted.
type FolderNode struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	ParentID  *string       `json:"parent_id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Folders   []*FolderNode `json:"folders"` // Pointers for proper nesting
	Files     []FileNode    `json:"files"`
}

// FileNode is a file entry in the tree (metadata only)
type FileNode struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	FolderID    string    `json:"folder_id"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UpdatedAt   time.Time `json:"updated_at"`
}
