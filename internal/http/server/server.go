package server

import (
	"context"
	"docvault/internal/config"
	"docvault/internal/http/handlers/access"
	"docvault/internal/http/handlers/docs"
	"docvault/internal/http/handlers/session"
	"docvault/internal/http/handlers/shares"
	"docvault/internal/http/handlers/user"
	"docvault/internal/http/middleware"
	"docvault/internal/models"
	utils "docvault/internal/utils/http_errors"
	"docvault/pkg/metrics"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

func StartServer(
	ctx context.Context,
	cfg *config.HTTPServer,
	log *slog.Logger,
	documentService DocumentService,
	revisionService RevisionService,
	shareService ShareService,
	accessService AccessService,
	authService AuthService,
	sessionStorer SessionStorer,
) error {
	r := mux.NewRouter()

	r.Use(middleware.Logger(log))
	r.Use(metrics.Middleware(routeName))

	setupRoutes(r, log, authService, documentService, revisionService, shareService, accessService, sessionStorer)

	srv := &http.Server{
		Addr:         cfg.Address,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
		Handler:      r,
	}

	errChan := make(chan error, 1)

	go func() {
		log.Info("server started", slog.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("server closed gracefully")
			} else {
				log.Error("could not start server:", "error", err)
				errChan <- err
			}
		}
	}()
	select {
	case <-ctx.Done():
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down server", "error", err)
			return err
		}
		log.Info("server exited gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

func routeName(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unknown"
	}
	if tpl, err := route.GetPathTemplate(); err == nil {
		return tpl
	}
	return "unknown"
}

func setupRoutes(
	r *mux.Router,
	log *slog.Logger,
	auth AuthService,
	doc DocumentService,
	rev RevisionService,
	share ShareService,
	acc AccessService,
	sessionStorer SessionStorer,
) {
	// POST user
	r.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user.Add(ctx, log, w, r, auth)
	}).Methods(http.MethodPost)

	// POST session
	r.HandleFunc("/api/auth", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session.Add(ctx, log, w, r, auth)
	}).Methods(http.MethodPost)

	// DELETE session
	r.HandleFunc("/api/auth/{token}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		token := vars["token"]
		session.Delete(ctx, log, w, r, token, auth)
	}).Methods(http.MethodDelete)

	// metrics
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	protected := r.NewRoute().Subrouter()

	protected.Use(middleware.Auth(log, sessionStorer))

	// POST document
	protected.HandleFunc("/api/documents", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		docs.Upload(ctx, log, w, r, doc)
	}).Methods(http.MethodPost)

	// GET documents
	protected.HandleFunc("/api/documents", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		docs.List(ctx, log, w, r, doc)
	}).Methods(http.MethodGet)

	// GET document by id
	protected.HandleFunc("/api/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		docs.GetByID(ctx, log, w, r, docID, doc)
	}).Methods(http.MethodGet)

	// PUT document by id
	protected.HandleFunc("/api/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		docs.Update(ctx, log, w, r, docID, rev)
	}).Methods(http.MethodPut)

	// DELETE document by id
	protected.HandleFunc("/api/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		docs.Delete(ctx, log, w, r, docID, doc)
	}).Methods(http.MethodDelete)

	// GET revisions
	protected.HandleFunc("/api/documents/{id}/revisions", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		docs.Revisions(ctx, log, w, r, docID, rev)
	}).Methods(http.MethodGet)

	protected.HandleFunc("/api/documents/{id}/revisions/{version}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docs.RevisionByVersion(ctx, log, w, r, vars["id"], vars["version"], rev)
	}).Methods(http.MethodGet)

	// POST share links
	protected.HandleFunc("/api/documents/{id}/share/public", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		shares.IssuePublic(ctx, log, w, r, docID, share)
	}).Methods(http.MethodPost)

	protected.HandleFunc("/api/documents/{id}/share/private", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		shares.IssuePrivate(ctx, log, w, r, docID, share)
	}).Methods(http.MethodPost)

	protected.HandleFunc("/api/documents/{id}/share/email", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		shares.IssueEmailed(ctx, log, w, r, docID, share)
	}).Methods(http.MethodPost)

	// grant validation routes accept anonymous visitors
	open := r.NewRoute().Subrouter()

	open.Use(middleware.OptionalAuth(log, sessionStorer))

	open.HandleFunc("/api/documents/{id}/public", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		access.Resolve(ctx, log, w, r, docID, models.GrantPublic, acc)
	}).Methods(http.MethodGet)

	open.HandleFunc("/api/documents/{id}/private", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		access.Resolve(ctx, log, w, r, docID, models.GrantPrivate, acc)
	}).Methods(http.MethodGet)

	open.HandleFunc("/api/documents/{id}/access", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		access.Resolve(ctx, log, w, r, docID, models.GrantEmailed, acc)
	}).Methods(http.MethodGet)

	// Not allowed
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, http.StatusMethodNotAllowed, models.ErrMethodNotAllowed.Error())
	})
}
