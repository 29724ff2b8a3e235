package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/leca/image-cdn/internal/model"
	"github.com/rs/zerolog"
)

const pgUniqueViolation = "23505"

// Compile-time check that PostgresDB implements Database.
var _ Database = (*PostgresDB)(nil)

// PostgresDB implements Database backed by a pgx connection pool.
type PostgresDB struct {
	pool *pgxpool.Pool
	q    queries
}

// NewPostgresDB applies pending migrations and opens a connection pool.
func NewPostgresDB(ctx context.Context, dsn string) (*PostgresDB, error) {
	if err := runPostgresMigrations(ctx, dsn); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	return &PostgresDB{pool: pool, q: newQueries(sq.Dollar)}, nil
}

// runPostgresMigrations uses a separate database/sql handle through the pgx
// stdlib driver, since golang-migrate does not speak pgxpool.
func runPostgresMigrations(ctx context.Context, dsn string) error {
	log := zerolog.Ctx(ctx)

	sqldb, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("sql.Open pgx: %w", err)
	}
	defer sqldb.Close()

	driver, err := postgres.WithInstance(sqldb, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("postgres driver: %w", err)
	}

	src, err := iofs.New(postgresMigrations, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate.New: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debug().Msg("no new migrations to apply")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}
	log.Info().Msg("migrations applied")
	return nil
}

// Close releases every pooled connection.
func (p *PostgresDB) Close() error {
	p.pool.Close()
	return nil
}

// Ping verifies a pooled connection is usable.
func (p *PostgresDB) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresDB) CreateImage(ctx context.Context, img *model.Image) error {
	query, args, err := p.q.insertImage(img)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := p.pool.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("insert image %s: %w", img.ID, ErrDuplicateID)
		}
		return fmt.Errorf("insert image: %w", err)
	}
	return nil
}

func (p *PostgresDB) GetImage(ctx context.Context, id string) (*model.Image, error) {
	query, args, err := p.q.selectImage(id)
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	img := &model.Image{}
	err = p.pool.QueryRow(ctx, query, args...).Scan(&img.ID, &img.Data, &img.MIMEType)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	return img, nil
}

func (p *PostgresDB) DeleteImage(ctx context.Context, id string) (int64, error) {
	query, args, err := p.q.deleteImage(id)
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}
	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete image: %w", err)
	}
	return tag.RowsAffected(), nil
}
