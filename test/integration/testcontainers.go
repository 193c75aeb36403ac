package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/opsadmin/pkg/db"
	"github.com/doodlesbykumbi/opsadmin/pkg/seed"
	gormstore "github.com/doodlesbykumbi/opsadmin/pkg/server/store/gorm"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB          *gorm.DB
	RawDB       *sql.DB
	Records     *gormstore.RecordsStore
	Container   testcontainers.Container
	DatabaseURL string
	HTTPClient  *http.Client

	// Server is shared by every scenario that doesn't ask for its own
	Server *ServerInstance

	InlineMode bool
	BinaryPath string
}

// NewTestContext creates a new test context with PostgreSQL testcontainer.
// Modes:
//   - Binary mode (default): Set OPSADMIN_BINARY to the path of the opsadminctl binary
//   - Inline mode: Set OPSADMIN_INLINE=1 to run the server in-process (no binary needed)
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	inlineMode := os.Getenv("OPSADMIN_INLINE") == "1"
	binaryPath := os.Getenv("OPSADMIN_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, fmt.Errorf("Either OPSADMIN_BINARY or OPSADMIN_INLINE=1 is required.\n\nBinary mode:\n  go build -o opsadminctl ./cmd/opsadminctl\n  INTEGRATION_TEST=1 OPSADMIN_BINARY=$(pwd)/opsadminctl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 OPSADMIN_INLINE=1 go test -v ./test/integration/...")
	}

	if !inlineMode {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("OPSADMIN_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("opsadmin_test"),
		tcpostgres.WithUsername("opsadmin"),
		tcpostgres.WithPassword("opsadmin"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	database, err := db.Connect(db.Config{URL: connStr})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	rawDB, err := database.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	if err := runMigrations(rawDB, migrationsDir); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	records, err := gormstore.NewRecordsStore(database)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	tc := &TestContext{
		DB:          database,
		RawDB:       rawDB,
		Records:     records,
		Container:   pgContainer,
		DatabaseURL: connStr,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		InlineMode:  inlineMode,
		BinaryPath:  binaryPath,
	}

	tc.Server, err = StartServer(tc, DefaultServerConfig())
	if err != nil {
		tc.Close(ctx)
		return nil, err
	}
	return tc, nil
}

// Reset empties every collection, restarts the id sequences and loads
// the built-in fixtures.
func (tc *TestContext) Reset(ctx context.Context) error {
	if err := tc.DB.WithContext(ctx).Exec(
		"TRUNCATE organizations, servers, commands RESTART IDENTITY",
	).Error; err != nil {
		return fmt.Errorf("failed to truncate collections: %w", err)
	}
	if _, err := seed.Apply(ctx, tc.Records, seed.Default()); err != nil {
		return fmt.Errorf("failed to load fixtures: %w", err)
	}
	return nil
}

// waitForServer polls the health endpoint until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Server != nil {
		tc.Server.Stop()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	paths := []string{
		"../..",
		"..",
		".",
	}

	for _, p := range paths {
		goMod := filepath.Join(p, "go.mod")
		if _, err := os.Stat(goMod); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

// runMigrations executes the up migrations in version order
func runMigrations(db *sql.DB, migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no migrations found in %s", migrationsDir)
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("migration %s: %w", filepath.Base(file), err)
		}
	}

	return nil
}
