package services

import (
	"context"

	"filedrive/internal/domain/models"
)

// CreateFolderRequest holds input for folder creation
type CreateFolderRequest struct {
	AccountID string  `json:"-"`
	ParentID  *string `json:"parent_id,omitempty"`
	Name      string  `json:"name"`
}

// UpdateFolderRequest holds input for renaming or reparenting a folder
type UpdateFolderRequest struct {
	AccountID string  `json:"-"`
	Name      *string `json:"name,omitempty"`
	ParentID  *string `json:"parent_id,omitempty"` // empty string = move to root
}

// FolderContents is one level of a folder: the folder itself plus its
// immediate child folders and direct files
type FolderContents struct {
	Folder  *models.Folder  `json:"folder,omitempty"`
	Folders []models.Folder `json:"folders"`
	Files   []models.File   `json:"files"`
}

// CascadeResult reports a completed cascade delete
type CascadeResult struct {
	FolderID         string   `json:"folder_id"`
	DeletedFileIDs   []string `json:"deleted_file_ids"`
	DeletedFolderIDs []string `json:"deleted_folder_ids"`
}

// FolderService defines folder business operations
type FolderService interface {
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)
	GetFolder(ctx context.Context, id, accountID string) (*models.Folder, error)
	UpdateFolder(ctx context.Context, id string, req *UpdateFolderRequest) (*models.Folder, error)
	ListContents(ctx context.Context, folderID *string, accountID string) (*FolderContents, error)
}

// CascadeDeleter removes a folder subtree together with every contained
// file's blob and metadata row. On partial failure the returned error is a
// *domain.CascadeError naming what was removed before the failure.
type CascadeDeleter interface {
	DeleteFolder(ctx context.Context, id, accountID string) (*CascadeResult, error)
}
