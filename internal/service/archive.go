package service

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"filedrive/internal/domain"
	"filedrive/internal/domain/models"
	"filedrive/internal/domain/repositories"
	"filedrive/internal/domain/services"
)

// archiveService implements the ArchiveService interface
type archiveService struct {
	folderRepo  repositories.FolderRepository
	fileRepo    repositories.FileRepository
	blobs       repositories.BlobStore
	blobTimeout time.Duration
	logger      *slog.Logger
}

// NewArchiveService creates a new streaming archive assembler.
// blobTimeout bounds each entry's open-and-drain; zero disables it.
func NewArchiveService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	blobs repositories.BlobStore,
	blobTimeout time.Duration,
	logger *slog.Logger,
) services.ArchiveService {
	return &archiveService{
		folderRepo:  folderRepo,
		fileRepo:    fileRepo,
		blobs:       blobs,
		blobTimeout: blobTimeout,
		logger:      logger,
	}
}

// WriteArchive streams a folder's direct files into w as one zip.
//
// Entries are appended in listing order and each one's bytes are pulled
// from the blob store as the sink drains, so memory stays bounded to a
// single in-flight entry. The error contract is asymmetric on purpose:
//
//   - A storage key that cannot be resolved is detected before the entry
//     header is written, so the file is skipped and reported - one bad
//     object does not deny the caller every other object.
//   - A read failure after an entry's bytes started flowing corrupts the
//     zip irrecoverably, so it aborts the stream with a terminal
//     *domain.ArchiveEntryError and the central directory is never written.
//
// On success Close finalizes the central directory before this returns;
// completion is only signalled once the archive is structurally whole.
func (s *archiveService) WriteArchive(ctx context.Context, w io.Writer, folderID, accountID string) ([]services.SkippedEntry, error) {
	if _, err := s.folderRepo.GetByID(ctx, folderID, accountID); err != nil {
		return nil, err
	}

	files, err := s.fileRepo.ListByFolder(ctx, folderID, accountID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("folder %s: %w", folderID, domain.ErrNothingToArchive)
	}

	zw := zip.NewWriter(w)
	var skipped []services.SkippedEntry

	for _, file := range files {
		// Stop opening entries once the consumer is gone
		if err := ctx.Err(); err != nil {
			return skipped, err
		}

		// A stalled remote read must eventually abort the entry, so the
		// timeout covers the whole open-and-drain of each blob
		entryCtx, cancel := s.entryContext(ctx)

		reader, openErr := s.openEntry(entryCtx, &file)
		if openErr != nil {
			cancel()
			if errors.Is(openErr, domain.ErrNotFound) || errors.Is(openErr, domain.ErrValidation) {
				// No bytes written yet for this entry - safe to skip
				s.logger.Warn("archive entry skipped",
					"file_id", file.ID,
					"name", file.Name,
					"error", openErr,
				)
				skipped = append(skipped, services.SkippedEntry{
					FileID: file.ID,
					Name:   file.Name,
					Reason: openErr.Error(),
				})
				continue
			}
			return skipped, fmt.Errorf("open blob for file %s: %w", file.ID, openErr)
		}

		err := s.writeEntry(zw, &file, reader)
		reader.Close()
		cancel()
		if err != nil {
			return skipped, err
		}
	}

	// Trailing central directory - without it the zip is structurally invalid
	if err := zw.Close(); err != nil {
		return skipped, fmt.Errorf("finalize archive: %w", err)
	}

	s.logger.Info("archive streamed",
		"folder_id", folderID,
		"entries", len(files)-len(skipped),
		"skipped", len(skipped),
	)

	return skipped, nil
}

func (s *archiveService) entryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.blobTimeout > 0 {
		return context.WithTimeout(ctx, s.blobTimeout)
	}
	return context.WithCancel(ctx)
}

// openEntry resolves a file's storage key into a read stream
func (s *archiveService) openEntry(ctx context.Context, file *models.File) (io.ReadCloser, error) {
	if file.StorageKey == "" {
		return nil, fmt.Errorf("file %s has no storage key: %w", file.ID, domain.ErrValidation)
	}

	return s.blobs.OpenRead(ctx, file.StorageKey)
}

// writeEntry registers one entry and drains its source through the zip
// writer. Any failure past this point is terminal for the whole stream.
func (s *archiveService) writeEntry(zw *zip.Writer, file *models.File, reader io.Reader) error {
	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:     file.Name,
		Method:   zip.Deflate,
		Modified: file.UpdatedAt,
	})
	if err != nil {
		return &domain.ArchiveEntryError{FileID: file.ID, FileName: file.Name, Err: err}
	}

	if _, err := io.Copy(entry, reader); err != nil {
		return &domain.ArchiveEntryError{FileID: file.ID, FileName: file.Name, Err: err}
	}

	return nil
}
