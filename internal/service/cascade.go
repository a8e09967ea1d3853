package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"filedrive/internal/domain"
	"filedrive/internal/domain/models"
	"filedrive/internal/domain/repositories"
	"filedrive/internal/domain/services"
)

// cascadeService implements the CascadeDeleter interface. It coordinates
// deletion across the metadata store and the blob store, which fail
// independently; there is no shared transaction.
type cascadeService struct {
	folderRepo  repositories.FolderRepository
	fileRepo    repositories.FileRepository
	blobs       repositories.BlobStore
	blobTimeout time.Duration
	logger      *slog.Logger
}

// NewCascadeDeleter creates a new cascade delete coordinator.
// blobTimeout bounds each individual blob operation; zero disables it.
func NewCascadeDeleter(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	blobs repositories.BlobStore,
	blobTimeout time.Duration,
	logger *slog.Logger,
) services.CascadeDeleter {
	return &cascadeService{
		folderRepo:  folderRepo,
		fileRepo:    fileRepo,
		blobs:       blobs,
		blobTimeout: blobTimeout,
		logger:      logger,
	}
}

// DeleteFolder removes a folder, every descendant folder, and every file
// in the subtree - blob first, metadata row second, per file.
//
// Ordering rationale: a metadata row without its blob can never resolve
// its content again, while a blob without its row merely orphans storage.
// So the blob always goes first, and the row only after that succeeded.
//
// Failure policy is fail-fast: the first hard failure aborts the cascade
// and the returned *domain.CascadeError names every file fully removed
// before it, so a retry is idempotent. NotFound from either backend is
// treated as success - the work was already done.
func (s *cascadeService) DeleteFolder(ctx context.Context, id, accountID string) (*services.CascadeResult, error) {
	// Resolve the target before touching anything
	if _, err := s.folderRepo.GetByID(ctx, id, accountID); err != nil {
		return nil, err
	}

	// Enumerate the subtree top-down via the materialized folder index
	folderScope, err := s.descendantScope(ctx, id, accountID)
	if err != nil {
		return nil, err
	}

	result := &services.CascadeResult{FolderID: id}

	// Delete files folder by folder, deepest first, so a partial failure
	// never leaves a file whose folder row is already gone
	for i := len(folderScope) - 1; i >= 0; i-- {
		folderID := folderScope[i]

		files, err := s.fileRepo.ListByFolder(ctx, folderID, accountID)
		if err != nil {
			return nil, s.cascadeErr(id, result, folderID, err)
		}

		for _, file := range files {
			if err := s.deleteFileAndBlob(ctx, &file); err != nil {
				return nil, s.cascadeErr(id, result, file.ID, err)
			}
			result.DeletedFileIDs = append(result.DeletedFileIDs, file.ID)
		}

		if err := s.folderRepo.Delete(ctx, folderID, accountID); err != nil {
			return nil, s.cascadeErr(id, result, folderID, err)
		}
		result.DeletedFolderIDs = append(result.DeletedFolderIDs, folderID)
	}

	s.logger.Info("folder cascade deleted",
		"folder_id", id,
		"account_id", accountID,
		"files_deleted", len(result.DeletedFileIDs),
		"folders_deleted", len(result.DeletedFolderIDs),
	)

	return result, nil
}

// deleteFileAndBlob removes one file, blob before row. An already-absent
// blob or row counts as success so retries and concurrent cascades of the
// same subtree stay benign.
func (s *cascadeService) deleteFileAndBlob(ctx context.Context, file *models.File) error {
	blobCtx := ctx
	if s.blobTimeout > 0 {
		var cancel context.CancelFunc
		blobCtx, cancel = context.WithTimeout(ctx, s.blobTimeout)
		defer cancel()
	}

	if err := s.blobs.Delete(blobCtx, file.StorageKey); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete blob for file %s: %w", file.ID, err)
		}
	}

	if err := s.fileRepo.Delete(ctx, file.ID, file.AccountID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete row for file %s: %w", file.ID, err)
		}
	}

	return nil
}

// descendantScope returns the target folder and all its descendants in
// top-down order, reusing the tree materializer's parent index
func (s *cascadeService) descendantScope(ctx context.Context, id, accountID string) ([]string, error) {
	allFolders, err := s.folderRepo.ListAll(ctx, accountID)
	if err != nil {
		return nil, err
	}

	children := make(map[string][]string)
	for _, folder := range allFolders {
		if folder.ParentID != nil {
			children[*folder.ParentID] = append(children[*folder.ParentID], folder.ID)
		}
	}

	scope := []string{id}
	for i := 0; i < len(scope); i++ {
		scope = append(scope, children[scope[i]]...)
	}

	return scope, nil
}

func (s *cascadeService) cascadeErr(folderID string, result *services.CascadeResult, failedID string, err error) error {
	s.logger.Error("cascade delete aborted",
		"folder_id", folderID,
		"failed_at", failedID,
		"files_deleted", len(result.DeletedFileIDs),
		"error", err,
	)

	return &domain.CascadeError{
		FolderID:       folderID,
		DeletedFileIDs: result.DeletedFileIDs,
		FailedFileID:   failedID,
		Err:            err,
	}
}
