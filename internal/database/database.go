package database

import (
	"context"
	"errors"
	"strings"

	"github.com/leca/image-cdn/internal/model"
)

var (
	// ErrNotFound is returned when no image exists for an id.
	ErrNotFound = errors.New("image not found")

	// ErrDuplicateID is returned when an insert collides with an existing id.
	ErrDuplicateID = errors.New("duplicate image id")
)

// Database is the blob store holding (id, image_data, mimetype) rows.
type Database interface {
	// CreateImage inserts a new row. Ids are never overwritten.
	CreateImage(ctx context.Context, img *model.Image) error

	// GetImage fetches a row by id, returning ErrNotFound on a miss.
	GetImage(ctx context.Context, id string) (*model.Image, error)

	// DeleteImage removes a row by id and reports how many rows were removed.
	DeleteImage(ctx context.Context, id string) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

// IsPostgresDSN reports whether dsn selects the PostgreSQL backend.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to the backend selected by dsn: PostgreSQL for postgres://
// URLs, SQLite for everything else.
func Open(ctx context.Context, dsn string) (Database, error) {
	if IsPostgresDSN(dsn) {
		return NewPostgresDB(ctx, dsn)
	}
	return NewSQLiteDB(dsn)
}
