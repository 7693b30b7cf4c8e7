package docs

import (
	"context"
	"docvault/internal/dto"
	"docvault/internal/models"
	errutils "docvault/internal/utils/http_errors"
	parseutil "docvault/internal/utils/parseLimit"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

func List(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, dp DocumentProvider) {
	op := pkg + "List"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	limit := parseutil.ParseLimit(r.URL.Query().Get("limit"))

	rawDocs, err := dp.ListDocuments(ctx, requester, limit)
	if err != nil {
		log.Error("failed to list documents", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	dtoDocs := make([]dto.DocumentResponse, 0)

	for _, doc := range rawDocs {
		dtoDocs = append(dtoDocs, toResponse(doc))
	}

	response := map[string]any{
		"data": map[string]any{
			"docs": dtoDocs,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func GetByID(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, dp DocumentProvider) {
	op := pkg + "GetByID"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	doc, file, err := dp.DocumentByID(ctx, docID, requester)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			log.Warn("failed to get document by id, permission denied", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		case errors.Is(err, models.ErrDocumentNotFound):
			log.Warn("failed to get document by id", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
		default:
			log.Error("failed to get document by id", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		}
		return
	}

	if file != nil {
		defer file.Close()

		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", doc.Title))
		w.Header().Set("Content-Type", "application/octet-stream")
		if _, err := io.Copy(w, file); err != nil {
			log.Error("failed to write file response", slog.String("error", err.Error()))
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
