package services

import (
	"context"

	"filedrive/internal/domain/models"
)

// TreeService materializes the nested folder/file tree for an account
type TreeService interface {
	GetTree(ctx context.Context, accountID string) (*models.Tree, error)
}
