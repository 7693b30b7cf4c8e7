package postgres

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const pkg = "postgres/"

//go:embed migrations/*.sql
var migrations embed.FS

type Config struct {
	Addr     string
	Port     string
	User     string
	Password string
	DB       string
}

func New(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	op := pkg + "New"

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Addr, cfg.Port, cfg.User, cfg.Password, cfg.DB)

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return db, nil
}

// migrate executes all embedded .sql files in lexical order. Statements
// are idempotent (CREATE ... IF NOT EXISTS), so reruns are safe.
func migrate(ctx context.Context, db *sqlx.DB) error {
	op := pkg + "migrate"

	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}

		b, err := migrations.ReadFile("migrations/" + e.Name())
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if _, err := db.ExecContext(ctx, string(b)); err != nil {
			return fmt.Errorf("%s: %s: %w", op, e.Name(), err)
		}
	}

	return nil
}
