//go:build !embed_migrations

package main

import (
	"fmt"
	"io/fs"
	"os"
)

const defaultMigrationsPath = "db/migrations"

// migrationsSource reads migrations from OPSADMIN_MIGRATIONS_PATH, relative
// to the working directory unless absolute.
func migrationsSource() (fs.FS, string, error) {
	path := os.Getenv("OPSADMIN_MIGRATIONS_PATH")
	if path == "" {
		path = defaultMigrationsPath
	}
	if _, err := os.Stat(path); err != nil {
		return nil, "", fmt.Errorf("migrations directory: %w", err)
	}
	return os.DirFS(path), "file://" + path, nil
}
