package service

import (
	"context"
	"log/slog"

	"filedrive/internal/domain/models"
	"filedrive/internal/domain/repositories"
	"filedrive/internal/domain/services"
)

// treeService implements the TreeService interface
type treeService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		logger:     logger,
	}
}

// GetTree builds the nested folder/file tree for an account
func (s *treeService) GetTree(ctx context.Context, accountID string) (*models.Tree, error) {
	allFolders, err := s.folderRepo.ListAll(ctx, accountID)
	if err != nil {
		return nil, err
	}

	allFiles, err := s.fileRepo.ListAll(ctx, accountID)
	if err != nil {
		return nil, err
	}

	tree := Materialize(allFolders, allFiles)

	s.logger.Info("tree materialized",
		"account_id", accountID,
		"folder_count", len(allFolders),
		"file_count", len(allFiles),
		"root_count", len(tree.Folders),
	)

	return tree, nil
}

// Materialize turns flat folder and file rows into a nested tree in three
// linear passes. It never fails; inconsistent references degrade by policy:
//
//   - A file whose folder_id does not resolve is dropped from the tree.
//     It cannot block listing and has nowhere to hang.
//   - A folder whose parent_id is set but does not resolve is promoted to
//     a root, so whole subtrees are never silently lost.
//
// Within a child-list or file-list the relative order follows input scan
// order, which the repositories keep stable (folders by created_at, files
// by name). O(F + N) time, O(F) auxiliary space, no recursion.
func Materialize(folders []models.Folder, files []models.File) *models.Tree {
	// First pass: create all folder nodes
	nodes := make(map[string]*models.FolderNode, len(folders))
	for _, folder := range folders {
		nodes[folder.ID] = &models.FolderNode{
			ID:        folder.ID,
			Name:      folder.Name,
			ParentID:  folder.ParentID,
			CreatedAt: folder.CreatedAt,
			UpdatedAt: folder.UpdatedAt,
			Folders:   []*models.FolderNode{},
			Files:     []models.FileNode{},
		}
	}

	// Second pass: attach files to their owning folders
	for _, file := range files {
		parent, exists := nodes[file.FolderID]
		if !exists {
			// Dangling folder reference - dropped by policy
			continue
		}
		parent.Files = append(parent.Files, models.FileNode{
			ID:          file.ID,
			Name:        file.Name,
			FolderID:    file.FolderID,
			ContentType: file.ContentType,
			SizeBytes:   file.SizeBytes,
			UpdatedAt:   file.UpdatedAt,
		})
	}

	// Third pass: nest folders, promoting dangling parents to roots
	roots := make([]*models.FolderNode, 0)
	for _, folder := range folders {
		node := nodes[folder.ID]
		if folder.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, exists := nodes[*folder.ParentID]; exists {
			parent.Folders = append(parent.Folders, node)
		} else {
			// Unresolvable parent - surface as a root rather than lose it
			roots = append(roots, node)
		}
	}

	return &models.Tree{Folders: roots}
}
