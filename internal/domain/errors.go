package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstream     = errors.New("upstream storage failure")

	// ErrNothingToArchive signals an archive request for a folder with no
	// files. The caller gets an explicit condition instead of an empty zip.
	ErrNothingToArchive = errors.New("nothing to archive")
)

// CascadeError reports a cascade delete that stopped partway through.
// DeletedFileIDs lists the files whose blob and metadata row were both
// removed before the failure, so a caller can retry idempotently.
type CascadeError struct {
	FolderID       string
	DeletedFileIDs []string
	FailedFileID   string
	Err            error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("cascade delete of folder %s failed at file %s (%d files removed): %v",
		e.FolderID, e.FailedFileID, len(e.DeletedFileIDs), e.Err)
}

func (e *CascadeError) Unwrap() error {
	return e.Err
}

// ArchiveEntryError marks an archive stream that failed while an entry's
// bytes were already flowing. The zip format cannot recover from a
// truncated entry, so this is terminal for the whole stream.
type ArchiveEntryError struct {
	FileID   string
	FileName string
	Err      error
}

func (e *ArchiveEntryError) Error() string {
	return fmt.Sprintf("archive entry %q (file %s): %v", e.FileName, e.FileID, e.Err)
}

func (e *ArchiveEntryError) Unwrap() error {
	return e.Err
}
