package repositories

import (
	"context"

	"filedrive/internal/domain/models"
)

// FolderRepository defines data access operations for folder metadata
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id, accountID string) (*models.Folder, error)

	// Update updates a folder (rename or reparent)
	Update(ctx context.Context, folder *models.Folder) error

	// Delete deletes a folder row. Deleting an absent row is not an error.
	Delete(ctx context.Context, id, accountID string) error

	// ListChildren lists immediate child folders
	ListChildren(ctx context.Context, folderID *string, accountID string) ([]models.Folder, error)

	// ListAll retrieves all folders in an account (flat list, created_at ASC)
	ListAll(ctx context.Context, accountID string) ([]models.Folder, error)
}
