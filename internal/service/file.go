package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"filedrive/internal/config"
	"filedrive/internal/contenttype"
	"filedrive/internal/domain"
	"filedrive/internal/domain/models"
	"filedrive/internal/domain/repositories"
	"filedrive/internal/domain/services"
)

var fileNamePattern = regexp.MustCompile(`^[^/]+$`)

type fileService struct {
	fileRepo    repositories.FileRepository
	folderRepo  repositories.FolderRepository
	blobs       repositories.BlobStore
	types       *contenttype.Registry
	blobTimeout time.Duration
	logger      *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo repositories.FileRepository,
	folderRepo repositories.FolderRepository,
	blobs repositories.BlobStore,
	types *contenttype.Registry,
	blobTimeout time.Duration,
	logger *slog.Logger,
) services.FileService {
	return &fileService{
		fileRepo:    fileRepo,
		folderRepo:  folderRepo,
		blobs:       blobs,
		types:       types,
		blobTimeout: blobTimeout,
		logger:      logger,
	}
}

// UploadFile stores the blob, then inserts the metadata row. If the row
// insert fails the blob is removed again so storage is not orphaned.
func (s *fileService) UploadFile(ctx context.Context, req *services.UploadFileRequest) (*models.File, error) {
	if err := s.validateUploadRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// The owning folder must exist before the row becomes visible
	if _, err := s.folderRepo.GetByID(ctx, req.FolderID, req.AccountID); err != nil {
		return nil, fmt.Errorf("owning folder: %w", err)
	}

	now := time.Now().UTC()
	file := &models.File{
		ID:        uuid.NewString(),
		AccountID: req.AccountID,
		FolderID:  req.FolderID,
		Name:      req.Name,
		// Derived once at creation from the extension, stored, never
		// re-derived - a later rename does not change it
		ContentType: s.types.Lookup(req.Name),
		SizeBytes:   req.SizeBytes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	file.StorageKey = fmt.Sprintf("%s/%s", req.AccountID, file.ID)

	if err := s.writeBlob(ctx, file.StorageKey, req.Body, req.SizeBytes); err != nil {
		return nil, err
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		// Compensate: the row never existed, so the blob must not linger
		if delErr := s.blobs.Delete(ctx, file.StorageKey); delErr != nil {
			s.logger.Error("orphaned blob after failed metadata insert",
				"storage_key", file.StorageKey,
				"error", delErr,
			)
		}
		return nil, err
	}

	s.logger.Info("file uploaded",
		"id", file.ID,
		"name", file.Name,
		"folder_id", file.FolderID,
		"size_bytes", file.SizeBytes,
		"content_type", file.ContentType,
	)

	return file, nil
}

// GetFile retrieves a file's metadata
func (s *fileService) GetFile(ctx context.Context, id, accountID string) (*models.File, error) {
	return s.fileRepo.GetByID(ctx, id, accountID)
}

// UpdateFile renames or moves a file. Content type stays what it was at
// upload time.
func (s *fileService) UpdateFile(ctx context.Context, id string, req *services.UpdateFileRequest) (*models.File, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	file, err := s.fileRepo.GetByID(ctx, id, req.AccountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		file.Name = *req.Name
	}

	if req.FolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.FolderID, req.AccountID); err != nil {
			return nil, fmt.Errorf("target folder: %w", err)
		}
		file.FolderID = *req.FolderID
	}

	file.UpdatedAt = time.Now().UTC()

	if err := s.fileRepo.Update(ctx, file); err != nil {
		return nil, err
	}

	s.logger.Info("file updated",
		"id", file.ID,
		"name", file.Name,
		"folder_id", file.FolderID,
	)

	return file, nil
}

// DeleteFile removes the blob first, then the metadata row. A record that
// keeps pointing at deleted content is the worse failure, so the order is
// fixed. Deleting an already-absent blob or row succeeds.
func (s *fileService) DeleteFile(ctx context.Context, id, accountID string) error {
	file, err := s.fileRepo.GetByID(ctx, id, accountID)
	if err != nil {
		return err
	}

	blobCtx := ctx
	if s.blobTimeout > 0 {
		var cancel context.CancelFunc
		blobCtx, cancel = context.WithTimeout(ctx, s.blobTimeout)
		defer cancel()
	}

	if err := s.blobs.Delete(blobCtx, file.StorageKey); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete blob: %w", err)
		}
	}

	if err := s.fileRepo.Delete(ctx, id, accountID); err != nil {
		return err
	}

	s.logger.Info("file deleted", "id", id, "account_id", accountID)

	return nil
}

// OpenContent resolves the file's storage key into a byte stream. The
// caller owns the returned reader.
func (s *fileService) OpenContent(ctx context.Context, id, accountID string) (*models.File, io.ReadCloser, error) {
	file, err := s.fileRepo.GetByID(ctx, id, accountID)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.blobs.OpenRead(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("open blob for file %s: %w", id, err)
	}

	return file, reader, nil
}

func (s *fileService) writeBlob(ctx context.Context, key string, body io.Reader, size int64) error {
	blobCtx := ctx
	if s.blobTimeout > 0 {
		var cancel context.CancelFunc
		blobCtx, cancel = context.WithTimeout(ctx, s.blobTimeout)
		defer cancel()
	}

	if err := s.blobs.Write(blobCtx, key, body, size); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	return nil
}

func (s *fileService) validateUploadRequest(req *services.UploadFileRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.AccountID, validation.Required),
		validation.Field(&req.FolderID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFileNameLength),
			validation.Match(fileNamePattern).Error("file name cannot contain slashes"),
		),
		validation.Field(&req.SizeBytes, validation.Min(0)),
	)
}

func (s *fileService) validateUpdateRequest(req *services.UpdateFileRequest) error {
	if req.Name == nil && req.FolderID == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	rules := []*validation.FieldRules{
		validation.Field(&req.AccountID, validation.Required),
	}

	if req.Name != nil {
		rules = append(rules,
			validation.Field(&req.Name,
				validation.Required,
				validation.Length(1, config.MaxFileNameLength),
				validation.Match(fileNamePattern).Error("file name cannot contain slashes"),
			),
		)
	}

	return validation.ValidateStruct(req, rules...)
}
