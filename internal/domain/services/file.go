package services

import (
	"context"
	"io"

	"filedrive/internal/domain/models"
)

// UploadFileRequest holds input for a file upload. Body is consumed once.
type UploadFileRequest struct {
	AccountID string
	FolderID  string
	Name      string
	SizeBytes int64
	Body      io.Reader
}

// UpdateFileRequest holds input for renaming or moving a file
type UpdateFileRequest struct {
	AccountID string  `json:"-"`
	Name      *string `json:"name,omitempty"`
	FolderID  *string `json:"folder_id,omitempty"`
}

// FileService defines file business operations
type FileService interface {
	UploadFile(ctx context.Context, req *UploadFileRequest) (*models.File, error)
	GetFile(ctx context.Context, id, accountID string) (*models.File, error)
	UpdateFile(ctx context.Context, id string, req *UpdateFileRequest) (*models.File, error)

	// DeleteFile removes the blob first, then the metadata row
	DeleteFile(ctx context.Context, id, accountID string) error

	// OpenContent streams the file's bytes. The caller must close the reader.
	OpenContent(ctx context.Context, id, accountID string) (*models.File, io.ReadCloser, error)
}
