package repositories

import (
	"context"

	"filedrive/internal/domain/models"
)

// FileRepository defines data access operations for file metadata
type FileRepository interface {
	// Create creates a new file record
	Create(ctx context.Context, file *models.File) error

	// GetByID retrieves a file by ID
	GetByID(ctx context.Context, id, accountID string) (*models.File, error)

	// Update updates a file record (rename or move)
	Update(ctx context.Context, file *models.File) error

	// Delete deletes a file row. Deleting an absent row is not an error.
	Delete(ctx context.Context, id, accountID string) error

	// ListByFolder lists files directly inside a folder (name ASC)
	ListByFolder(ctx context.Context, folderID, accountID string) ([]models.File, error)

	// ListAll retrieves all files in an account (flat list, name ASC)
	ListAll(ctx context.Context, accountID string) ([]models.File, error)
}
