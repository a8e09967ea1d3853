package services

import (
	"context"
	"io"
)

// SkippedEntry records a file left out of an archive because its storage
// key could not be resolved before any of its bytes were written.
type SkippedEntry struct {
	FileID string `json:"file_id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ArchiveService streams a folder's direct files as one zip archive.
//
// WriteArchive writes the archive incrementally to w as entries drain, so
// memory stays bounded to one in-flight entry. Files whose blobs cannot be
// opened are skipped and reported; a read failure after an entry's bytes
// started flowing aborts the stream with a *domain.ArchiveEntryError.
// A folder with zero files fails with domain.ErrNothingToArchive before
// anything is written.
type ArchiveService interface {
	WriteArchive(ctx context.Context, w io.Writer, folderID, accountID string) ([]SkippedEntry, error)
}
