package access

import (
	"context"
	"docvault/internal/dto"
	"docvault/internal/models"
	errutils "docvault/internal/utils/http_errors"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// Resolve validates the ?token= query value against the document and
// streams the document on success. Every denial is reported as the same
// 403 regardless of whether the token was unknown, expired or bound to
// someone else.
func Resolve(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, kind models.GrantKind, gv GrantValidator) {
	op := pkg + "Resolve"

	log = log.With(slog.String("op", op))

	tok := r.URL.Query().Get("token")

	// nil for anonymous visitors
	requester, _ := r.Context().Value(models.UserContextKey).(*models.User)

	doc, file, err := gv.Validate(ctx, docID, tok, kind, requester)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrGrantNotFound),
			errors.Is(err, models.ErrGrantExpired),
			errors.Is(err, models.ErrForbidden):
			log.Warn("access denied", slog.String("doc_id", docID), slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		case errors.Is(err, models.ErrDocumentNotFound):
			log.Warn("document not found", slog.String("doc_id", docID))
			errutils.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
		case errors.Is(err, models.ErrInvalidParams):
			log.Warn("invalid access request", slog.String("error", err.Error()))
			errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		default:
			log.Error("failed to validate grant", slog.String("error", err.Error()))
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
		"data": dto.DocumentResponse{
			ID:             doc.ID,
			Title:          doc.Title,
			Content:        doc.Content,
			Description:    doc.Description,
			CurrentVersion: doc.CurrentVersion,
			CreatedAt:      doc.CreatedAt,
			UpdatedAt:      doc.UpdatedAt,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
