package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"filedrive/internal/config"
	"filedrive/internal/domain"
	"filedrive/internal/domain/models"
	"filedrive/internal/domain/repositories"
	"filedrive/internal/domain/services"
)

var folderNamePattern = regexp.MustCompile(`^[^/]+$`)

type folderService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		logger:     logger,
	}
}

// CreateFolder creates a new folder
func (s *folderService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Normalize empty string to nil for root-level folders
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	// If a parent is specified, verify it exists
	if req.ParentID != nil {
		parent, err := s.folderRepo.GetByID(ctx, *req.ParentID, req.AccountID)
		if err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
		s.logger.Debug("parent folder found",
			"parent_id", parent.ID,
			"parent_name", parent.Name,
		)
	}

	now := time.Now().UTC()
	folder := &models.Folder{
		ID:        uuid.NewString(),
		AccountID: req.AccountID,
		ParentID:  req.ParentID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"account_id", req.AccountID,
		"parent_id", req.ParentID,
	)

	return folder, nil
}

// GetFolder retrieves a folder by ID
func (s *folderService) GetFolder(ctx context.Context, id, accountID string) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, id, accountID)
}

// UpdateFolder updates a folder (rename or reparent)
func (s *folderService) UpdateFolder(ctx context.Context, id string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, id, req.AccountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		folder.Name = *req.Name
	}

	if req.ParentID != nil {
		if *req.ParentID != "" {
			parent, err := s.folderRepo.GetByID(ctx, *req.ParentID, req.AccountID)
			if err != nil {
				return nil, fmt.Errorf("parent folder: %w", err)
			}

			// Parent references must stay a forest
			if err := s.validateNoCircularReference(ctx, id, *req.ParentID, req.AccountID); err != nil {
				return nil, err
			}

			folder.ParentID = &parent.ID
			s.logger.Debug("moving folder to new parent",
				"folder_id", id,
				"new_parent_id", parent.ID,
			)
		} else {
			// Move to root
			folder.ParentID = nil
			s.logger.Debug("moving folder to root", "folder_id", id)
		}
	}

	folder.UpdatedAt = time.Now().UTC()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// ListContents lists one level: the folder plus its immediate child
// folders and direct files. A nil folderID lists the root level.
func (s *folderService) ListContents(ctx context.Context, folderID *string, accountID string) (*services.FolderContents, error) {
	var folder *models.Folder
	var err error

	if folderID != nil && *folderID != "" {
		folder, err = s.folderRepo.GetByID(ctx, *folderID, accountID)
		if err != nil {
			return nil, err
		}
	}

	childFolders, err := s.folderRepo.ListChildren(ctx, folderID, accountID)
	if err != nil {
		return nil, fmt.Errorf("list child folders: %w", err)
	}

	var files []models.File
	if folderID != nil && *folderID != "" {
		files, err = s.fileRepo.ListByFolder(ctx, *folderID, accountID)
		if err != nil {
			return nil, fmt.Errorf("list files: %w", err)
		}
	}

	if childFolders == nil {
		childFolders = []models.Folder{}
	}
	if files == nil {
		files = []models.File{}
	}

	return &services.FolderContents{
		Folder:  folder,
		Folders: childFolders,
		Files:   files,
	}, nil
}

func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.AccountID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
			validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
		),
	)
}

func (s *folderService) validateUpdateRequest(req *services.UpdateFolderRequest) error {
	if req.Name == nil && req.ParentID == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	rules := []*validation.FieldRules{
		validation.Field(&req.AccountID, validation.Required),
	}

	if req.Name != nil {
		rules = append(rules,
			validation.Field(&req.Name,
				validation.Required,
				validation.Length(1, config.MaxFolderNameLength),
				validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
			),
		)
	}

	return validation.ValidateStruct(req, rules...)
}

// validateNoCircularReference ensures a reparent won't make a folder its
// own ancestor
func (s *folderService) validateNoCircularReference(ctx context.Context, folderID, newParentID, accountID string) error {
	if folderID == newParentID {
		return fmt.Errorf("%w: cannot move folder into itself", domain.ErrValidation)
	}

	// Walk up from the new parent; hitting the moved folder means a cycle
	currentID := newParentID
	for {
		parent, err := s.folderRepo.GetByID(ctx, currentID, accountID)
		if err != nil {
			return err
		}

		if parent.ParentID == nil {
			return nil
		}

		if *parent.ParentID == folderID {
			return fmt.Errorf("%w: cannot move folder into its own descendant", domain.ErrValidation)
		}

		currentID = *parent.ParentID
	}
}
