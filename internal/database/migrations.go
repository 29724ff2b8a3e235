package database

import "embed"

// sqliteSchema is applied on every SQLite open; it is idempotent.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS images (
    id TEXT PRIMARY KEY NOT NULL,
    image_data BLOB NOT NULL,
    mimetype TEXT NOT NULL
);
`

// postgresMigrations holds the versioned PostgreSQL migrations run by
// golang-migrate.
//
//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS
