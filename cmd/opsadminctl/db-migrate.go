package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/opsadmin/pkg/db"
)

// migrationsTable keeps golang-migrate's bookkeeping apart from the record tables
const migrationsTable = "opsadmin_schema_migrations"

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database",
	Long:  `Manage the PostgreSQL schema used by the postgres store backend.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'db' requires a subcommand (migrate, down, status)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

This command runs all pending database migrations to bring the schema
up to date. Migrations are located in the db/migrations directory.

Example:
  opsadminctl db migrate`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMigrations(); err != nil {
			fmt.Println("Migration failed:", err)
			os.Exit(1)
		}
	},
}

var dbMigrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Rollback database migrations",
	Long: `Rollback database migrations.

This command rolls back the specified number of migrations (default: 1).

Example:
  opsadminctl db down      # Rollback 1 migration
  opsadminctl db down 3    # Rollback 3 migrations`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				fmt.Printf("Invalid number of steps: %s\n", args[0])
				os.Exit(1)
			}
			steps = n
		}

		if err := runMigrationsDown(steps); err != nil {
			fmt.Println("Rollback failed:", err)
			os.Exit(1)
		}
	},
}

var dbMigrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current migration version",
	Long:  `Show the current database migration version and the migrations not yet applied.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := showMigrationStatus(); err != nil {
			fmt.Println("Failed to get status:", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbMigrateDownCmd)
	dbCmd.AddCommand(dbMigrateStatusCmd)
}

// databaseURLWithMigrationsTable returns DATABASE_URL pointing golang-migrate
// at its own bookkeeping table.
func databaseURLWithMigrationsTable() string {
	dbURL := db.URL()
	if dbURL == "" {
		return ""
	}
	if strings.Contains(dbURL, "?") {
		return dbURL + "&x-migrations-table=" + migrationsTable
	}
	return dbURL + "?x-migrations-table=" + migrationsTable
}

func newMigrate() (*migrate.Migrate, error) {
	dbURL := databaseURLWithMigrationsTable()
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	m, err := createMigrateInstance(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func createMigrateInstance(dbURL string) (*migrate.Migrate, error) {
	fsys, location, err := migrationsSource()
	if err != nil {
		return nil, err
	}
	logger.Debug("loading migrations", zap.String("source", location))

	d, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs driver: %w", err)
	}
	return migrate.NewWithSourceInstance("iofs", d, dbURL)
}

// listMigrationFiles returns the up migrations in version order.
func listMigrationFiles() ([]string, error) {
	fsys, _, err := migrationsSource()
	if err != nil {
		return nil, err
	}
	files, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

func runMigrations() error {
	m, err := newMigrate()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, _ := m.Version()
	fmt.Printf("Current version: %d (dirty: %v)\n", version, dirty)

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migrations to run - database is up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, _ := m.Version()
	fmt.Printf("Migrated to version: %d\n", newVersion)
	fmt.Println("Migrations complete")
	return nil
}

func runMigrationsDown(steps int) error {
	m, err := newMigrate()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	fmt.Printf("Rolling back %d migration(s)...\n", steps)

	if err := m.Steps(-steps); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	version, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("Rolled back every migration")
		return nil
	}
	fmt.Printf("Rolled back to version: %d\n", version)
	return nil
}

func showMigrationStatus() error {
	m, err := newMigrate()
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	files, err := listMigrationFiles()
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("No migrations have been applied yet")
			printPending(files, 0)
			return nil
		}
		return err
	}

	fmt.Printf("Current version: %d\n", version)
	if dirty {
		fmt.Println("Warning: Database is in a dirty state")
	}
	printPending(files, version)
	return nil
}

// printPending lists the migrations numbered above version.
func printPending(files []string, version uint) {
	var pending []string
	for _, name := range files {
		prefix, _, _ := strings.Cut(name, "_")
		n, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			continue
		}
		if uint(n) > version {
			pending = append(pending, strings.TrimSuffix(name, ".up.sql"))
		}
	}

	if len(pending) == 0 {
		fmt.Println("No pending migrations")
		return
	}
	fmt.Printf("Pending migrations (%d):\n", len(pending))
	for _, name := range pending {
		fmt.Printf("  %s\n", name)
	}
}
