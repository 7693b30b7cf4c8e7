package docs

import (
	"context"
	"docvault/internal/dto"
	"docvault/internal/models"
	errutils "docvault/internal/utils/http_errors"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

func Update(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, du DocumentUpdater) {
	op := pkg + "Update"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Error("failed to parse multipart form", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	var req dto.UpdateDocumentRequest

	if err := json.Unmarshal([]byte(r.FormValue("meta")), &req); err != nil {
		log.Error("failed to unmarshal meta", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusBadRequest, "invalid meta json")
		return
	}

	patch := models.DocumentPatch{
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
	}

	var file io.Reader
	var filename string

	if f, header, err := r.FormFile("file"); err == nil {
		defer f.Close()
		file = f
		filename = header.Filename
	}

	doc, err := du.ApplyUpdate(ctx, docID, requester.ID, patch, filename, file)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDocumentNotFound):
			log.Warn("failed to update document", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
		case errors.Is(err, models.ErrForbidden):
			log.Warn("failed to update document, permission denied", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		case errors.Is(err, models.ErrVersionConflict):
			log.Warn("failed to update document, version conflict", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusConflict, models.ErrVersionConflict.Error())
		case errors.Is(err, models.ErrInvalidParams):
			log.Warn("failed to update document", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		default:
			log.Error("failed to update document", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		}
		return
	}

	response := map[string]any{
		"data": toResponse(doc),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
