package docs

import (
	"context"
	"docvault/internal/dto"
	"docvault/internal/models"
	errutils "docvault/internal/utils/http_errors"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

const maxUploadBytes = 10 << 20

func Upload(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, du DocumentUploader) {
	op := pkg + "Upload"

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

	var meta dto.UploadMeta

	if err := json.Unmarshal([]byte(r.FormValue("meta")), &meta); err != nil {
		log.Error("failed to unmarshal meta", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusBadRequest, "invalid meta json")
		return
	}

	if meta.Title == "" {
		log.Warn("missing document title")
		errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	var file io.Reader
	var filename string

	if f, header, err := r.FormFile("file"); err == nil {
		defer f.Close()
		file = f
		filename = header.Filename
	}

	doc, err := du.UploadDocument(ctx, requester, meta.Title, meta.Content, meta.Description, filename, file)
	if err != nil {
		log.Error("failed to upload document", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	response := map[string]any{
		"data": toResponse(doc),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func toResponse(doc *models.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:             doc.ID,
		Title:          doc.Title,
		Content:        doc.Content,
		Description:    doc.Description,
		CurrentVersion: doc.CurrentVersion,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}
