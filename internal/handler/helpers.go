package handler

import (
	"errors"
	"net/http"

	"filedrive/internal/domain"
	"filedrive/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var cascadeErr *domain.CascadeError

	switch {
	case errors.As(err, &cascadeErr):
		// Partial failure must stay distinguishable from total failure:
		// the caller needs the completed-so-far state to retry idempotently
		httputil.RespondErrorWithExtras(w, http.StatusInternalServerError, cascadeErr.Error(), map[string]interface{}{
			"folder_id":        cascadeErr.FolderID,
			"deleted_file_ids": deletedOrEmpty(cascadeErr.DeletedFileIDs),
			"failed_file_id":   cascadeErr.FailedFileID,
		})
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNothingToArchive):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		httputil.RespondError(w, http.StatusBadGateway, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func deletedOrEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// requireAccount pulls the account from context, responding 401 when absent
func requireAccount(w http.ResponseWriter, r *http.Request) (string, bool) {
	accountID := httputil.GetAccountID(r)
	if accountID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "missing account")
		return "", false
	}
	return accountID, true
}
