package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dentacare/internal/client/migrations"
	"github.com/dmitrijs2005/dentacare/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dentacare/internal/common"
	"github.com/dmitrijs2005/dentacare/internal/dbx"
	"github.com/dmitrijs2005/dentacare/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const tokenExpiresKey = common.AuthTokenCookieName + "_expires_at"

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database at dsn and migrates it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if filex.IsPlainPath(dsn) {
		if _, err := filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// modernc sqlite gives every connection its own ":memory:" database.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}
	return db, nil
}

// SQLiteStorage keeps the token and its expiry in the metadata table.
type SQLiteStorage struct {
	db   *sql.DB
	repo metadata.Repository
	opts options
}

// OpenSQLiteStorage opens and migrates the database at dsn.
func OpenSQLiteStorage(ctx context.Context, dsn string, opts ...Option) (*SQLiteStorage, error) {
	db, err := InitDatabase(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return NewSQLiteStorage(db, opts...), nil
}

// NewSQLiteStorage wraps an already migrated database.
func NewSQLiteStorage(db *sql.DB, opts ...Option) *SQLiteStorage {
	return &SQLiteStorage{db: db, repo: metadata.NewSQLiteRepository(db), opts: newOptions(opts)}
}

func (s *SQLiteStorage) Get(ctx context.Context) (string, error) {
	token, err := s.repo.Get(ctx, common.AuthTokenCookieName)
	if err != nil || len(token) == 0 {
		return "", err
	}

	raw, err := s.repo.Get(ctx, tokenExpiresKey)
	if err != nil {
		return "", err
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		// A token without a readable expiry is treated as gone.
		return "", nil
	}
	if !s.opts.now().Before(expiresAt) {
		return "", nil
	}
	return string(token), nil
}

func (s *SQLiteStorage) Set(ctx context.Context, token string) error {
	if err := checkToken(token); err != nil {
		return err
	}
	expiresAt := s.opts.now().Add(s.opts.maxAge).UTC().Format(time.RFC3339Nano)

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.AuthTokenCookieName, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, tokenExpiresKey, []byte(expiresAt))
	})
}

func (s *SQLiteStorage) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, common.AuthTokenCookieName, tokenExpiresKey)
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
