package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"filedrive/internal/domain"
	"filedrive/internal/domain/services"
	"filedrive/internal/httputil"
)

// ArchiveHandler streams zip downloads of folders
type ArchiveHandler struct {
	archiveService services.ArchiveService
	folderService  services.FolderService
	logger         *slog.Logger
}

// NewArchiveHandler creates a new archive handler
func NewArchiveHandler(archiveService services.ArchiveService, folderService services.FolderService, logger *slog.Logger) *ArchiveHandler {
	return &ArchiveHandler{
		archiveService: archiveService,
		folderService:  folderService,
		logger:         logger,
	}
}

// DownloadArchive streams a folder's direct files as one zip
// GET /api/folders/{id}/archive
func (h *ArchiveHandler) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccount(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder ID is required")
		return
	}

	// Resolve the folder up front so an error can still become a clean
	// status code - once zip bytes flow the response is committed
	folder, err := h.folderService.GetFolder(r.Context(), id, accountID)
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", folder.Name+".zip"))

	skipped, err := h.archiveService.WriteArchive(r.Context(), w, id, accountID)
	if err != nil {
		var entryErr *domain.ArchiveEntryError
		switch {
		case errors.Is(err, domain.ErrNothingToArchive), errors.Is(err, domain.ErrNotFound):
			// Nothing has been written yet - a normal error response works
			handleError(w, err)
		case errors.As(err, &entryErr):
			// Mid-stream failure: the archive is already partially sent
			// and cannot be repaired. Abort the connection so the client
			// sees a broken transfer instead of a corrupt-but-final zip.
			h.logger.Error("archive stream aborted",
				"folder_id", id,
				"file_id", entryErr.FileID,
				"error", err,
			)
			panic(http.ErrAbortHandler)
		default:
			h.logger.Error("archive stream failed", "folder_id", id, "error", err)
			panic(http.ErrAbortHandler)
		}
		return
	}

	for _, entry := range skipped {
		h.logger.Warn("archive completed without entry",
			"folder_id", id,
			"file_id", entry.FileID,
			"name", entry.Name,
			"reason", entry.Reason,
		)
	}
}
