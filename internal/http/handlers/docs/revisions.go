package docs

import (
	"context"
	"docvault/internal/dto"
	"docvault/internal/models"
	errutils "docvault/internal/utils/http_errors"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
)

func Revisions(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, rl RevisionLister) {
	op := pkg + "Revisions"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	revisions, err := rl.ListRevisions(ctx, docID, requester.ID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			log.Warn("failed to list revisions, permission denied", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		case errors.Is(err, models.ErrDocumentNotFound):
			log.Warn("failed to list revisions", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
		default:
			log.Error("failed to list revisions", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		}
		return
	}

	dtoRevisions := make([]dto.RevisionResponse, 0)

	for _, rev := range revisions {
		dtoRevisions = append(dtoRevisions, dto.RevisionResponse{
			ID:          rev.ID,
			Version:     rev.Version,
			Title:       rev.Title,
			Content:     rev.Content,
			Description: rev.Description,
			CreatedAt:   rev.CreatedAt,
		})
	}

	response := map[string]any{
		"data": map[string]any{
			"revisions": dtoRevisions,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}

func RevisionByVersion(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, rawVersion string, rp RevisionProvider) {
	op := pkg + "RevisionByVersion"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	version, err := strconv.Atoi(rawVersion)
	if err != nil || version < 1 {
		log.Warn("invalid revision version", slog.String("version", rawVersion))
		errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	rev, err := rp.RevisionByVersion(ctx, docID, requester.ID, version)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrForbidden):
			log.Warn("failed to get revision, permission denied", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		case errors.Is(err, models.ErrDocumentNotFound):
			log.Warn("failed to get revision", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
		case errors.Is(err, models.ErrRevisionNotFound):
			log.Warn("failed to get revision", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusNotFound, models.ErrRevisionNotFound.Error())
		default:
			log.Error("failed to get revision", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		}
		return
	}

	response := map[string]any{
		"data": dto.RevisionResponse{
			ID:          rev.ID,
			Version:     rev.Version,
			Title:       rev.Title,
			Content:     rev.Content,
			Description: rev.Description,
			CreatedAt:   rev.CreatedAt,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
