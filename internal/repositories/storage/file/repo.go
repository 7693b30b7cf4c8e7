package filerepo

import (
	"context"
	"docvault/internal/models"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	uuid "github.com/satori/go.uuid"
)

const pkg = "fileRepo/"

type repository struct {
	basePath string
}

func NewRepository(basePath string) (*repository, error) {
	op := pkg + "NewRepository"

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &repository{basePath: basePath}, nil
}

func (r *repository) Save(ctx context.Context, reader io.Reader, hint string) (string, error) {
	op := pkg + "Save"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	locator := uuid.NewV4().String() + filepath.Ext(hint)

	f, err := os.Create(filepath.Join(r.basePath, locator))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if _, err := io.Copy(f, reader); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return locator, nil
}

func (r *repository) Open(ctx context.Context, locator string) (io.ReadCloser, error) {
	op := pkg + "Open"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f, err := os.Open(filepath.Join(r.basePath, filepath.Base(locator)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

func (r *repository) Delete(ctx context.Context, locator string) error {
	op := pkg + "Delete"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := os.Remove(filepath.Join(r.basePath, filepath.Base(locator)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
