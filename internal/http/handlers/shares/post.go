package shares

import (
	"context"
	"docvault/internal/dto"
	"docvault/internal/models"
	errutils "docvault/internal/utils/http_errors"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

func IssuePublic(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, si ShareIssuer) {
	op := pkg + "IssuePublic"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	grant, url, err := si.IssuePublic(ctx, docID, requester.ID)
	if err != nil {
		writeIssueError(log, w, err)
		return
	}

	writeLink(log, w, url, grant)
}

func IssuePrivate(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, si ShareIssuer) {
	op := pkg + "IssuePrivate"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	var req dto.SharePrivateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	grant, url, err := si.IssuePrivate(ctx, docID, requester.ID, req.UserID)
	if err != nil {
		writeIssueError(log, w, err)
		return
	}

	writeLink(log, w, url, grant)
}

func IssueEmailed(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, si ShareIssuer) {
	op := pkg + "IssueEmailed"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	var req dto.ShareEmailRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	grant, url, err := si.IssueEmailed(ctx, docID, requester.ID, req.Email)
	if err != nil {
		writeIssueError(log, w, err)
		return
	}

	writeLink(log, w, url, grant)
}

func writeIssueError(log *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrDocumentNotFound):
		log.Warn("failed to issue grant", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
	case errors.Is(err, models.ErrForbidden):
		log.Warn("failed to issue grant, permission denied", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
	case errors.Is(err, models.ErrInvalidParams):
		log.Warn("failed to issue grant", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
	case errors.Is(err, models.ErrUpstream):
		log.Error("failed to issue grant", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusBadGateway, models.ErrUpstream.Error())
	default:
		log.Error("failed to issue grant", slog.String("error", err.Error()))
		errutils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
	}
}

func writeLink(log *slog.Logger, w http.ResponseWriter, url string, grant *models.AccessGrant) {
	response := map[string]any{
		"data": dto.ShareLinkResponse{
			URL:       url,
			ExpiresAt: grant.ExpiresAt,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
