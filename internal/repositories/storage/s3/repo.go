package s3repo

import (
	"context"
	"docvault/internal/models"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	uuid "github.com/satori/go.uuid"
)

const pkg = "s3Repo/"

type Config struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Local     bool
}

type repository struct {
	client *s3.Client
	bucket string
}

func NewRepository(ctx context.Context, cfg Config) (*repository, error) {
	op := pkg + "NewRepository"

	var client *s3.Client

	if cfg.Local {
		// minio-style endpoint with path addressing
		client = s3.New(s3.Options{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			),
			BaseEndpoint: aws.String(cfg.Endpoint),
			UsePathStyle: true,
		})
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		client = s3.NewFromConfig(awsCfg)
	}

	return &repository{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func (r *repository) Save(ctx context.Context, reader io.Reader, hint string) (string, error) {
	op := pkg + "Save"

	locator := uuid.NewV4().String() + filepath.Ext(hint)

	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(locator),
		Body:   reader,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return locator, nil
}

func (r *repository) Open(ctx context.Context, locator string) (io.ReadCloser, error) {
	op := pkg + "Open"

	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(locator),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out.Body, nil
}

func (r *repository) Delete(ctx context.Context, locator string) error {
	op := pkg + "Delete"

	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(locator),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
