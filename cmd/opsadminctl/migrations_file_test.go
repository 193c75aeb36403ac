//go:build !embed_migrations

package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMigrationFiles(t *testing.T) {
	t.Setenv("OPSADMIN_MIGRATIONS_PATH", filepath.Join("..", "..", "db", "migrations"))

	files, err := listMigrationFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_create_organizations.up.sql",
		"000002_create_servers.up.sql",
		"000003_create_commands.up.sql",
		"000004_create_audit_messages.up.sql",
	}, files)

	t.Setenv("OPSADMIN_MIGRATIONS_PATH", filepath.Join(t.TempDir(), "missing"))
	_, err = listMigrationFiles()
	assert.Error(t, err)
}
