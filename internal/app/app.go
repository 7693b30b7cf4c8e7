package app

import (
	"context"
	"docvault/internal/cache/redis"
	"docvault/internal/config"
	"docvault/internal/dbs/postgres"
	"docvault/internal/email"
	cachedocsrepo "docvault/internal/repositories/cache/docs"
	cachesessionrepo "docvault/internal/repositories/cache/session"
	documentrepo "docvault/internal/repositories/db/document"
	grantrepo "docvault/internal/repositories/db/grant"
	revisionrepo "docvault/internal/repositories/db/revision"
	userrepo "docvault/internal/repositories/db/user"
	storagerepo "docvault/internal/repositories/storage"
	filerepo "docvault/internal/repositories/storage/file"
	s3repo "docvault/internal/repositories/storage/s3"
	accessservice "docvault/internal/services/access"
	authservice "docvault/internal/services/auth"
	documentservice "docvault/internal/services/document"
	revisionservice "docvault/internal/services/revision"
	shareservice "docvault/internal/services/share"
	userservice "docvault/internal/services/user"
	"docvault/internal/token"
	"fmt"
	"log/slog"
)

type App struct {
	AuthService     AuthService
	UserService     UserService
	DocumentService DocumentService
	RevisionService RevisionService
	ShareService    ShareService
	AccessService   AccessService
}

func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := postgres.New(ctx, postgres.Config{
		Addr:     cfg.DB.Addr,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.DB})
	if err != nil {
		log.Error("failed connect to db", "err", err)
		return nil, fmt.Errorf("failed connect to db: %w", err)
	}

	cache, err := redis.New(ctx, redis.Config{Addr: cfg.Cache.Addr, Password: cfg.Cache.Password, DB: cfg.Cache.DB})
	if err != nil {
		log.Error("failed connect to cache", "err", err)
		return nil, fmt.Errorf("failed connect to cache: %w", err)
	}

	blobStore, err := newBlobStore(ctx, cfg.Blob)
	if err != nil {
		log.Error("failed to init blob store", "err", err)
		return nil, fmt.Errorf("failed to init blob store: %w", err)
	}

	userRepo := userrepo.NewRepository(db)
	docRepo := documentrepo.NewRepository(db)
	revRepo := revisionrepo.NewRepository(db)
	grantRepo := grantrepo.NewRepository(db)

	sessionCacheRepo := cachesessionrepo.New(cache, cfg.Cache.SessionTTL)
	documentCacheRepo := cachedocsrepo.New(cache, cfg.Cache.DocsTTL)

	codec := token.NewCodec(cfg.Share.Secret, cfg.Share.TTL)

	mailer := email.NewSender(email.Config{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		User:     cfg.Email.User,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
	})

	userService := userservice.New(log, userRepo, userRepo)

	authService := authservice.New(log, userService, userService, sessionCacheRepo, cfg.AdminToken)

	documentService := documentservice.New(log, docRepo, documentCacheRepo, blobStore)

	revisionService := revisionservice.New(log, docRepo, revRepo, documentCacheRepo, blobStore)

	shareService := shareservice.New(log, docRepo, grantRepo, codec, mailer, cfg.BaseURL)

	accessService := accessservice.New(log, docRepo, grantRepo, codec, blobStore)

	startGrantSweeper(ctx, log, grantRepo, cfg.Sweeper.Interval)

	return &App{
		AuthService:     authService,
		UserService:     userService,
		DocumentService: documentService,
		RevisionService: revisionService,
		ShareService:    shareService,
		AccessService:   accessService,
	}, nil
}

func newBlobStore(ctx context.Context, cfg config.Blob) (storagerepo.BlobStore, error) {
	switch cfg.Backend {
	case "s3":
		return s3repo.NewRepository(ctx, s3repo.Config{
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Local:     cfg.S3.Local,
		})
	case "file", "":
		return filerepo.NewRepository(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown blob backend: %q", cfg.Backend)
	}
}
