package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/opsadmin/pkg/config"
	"github.com/doodlesbykumbi/opsadmin/pkg/db"
	"github.com/doodlesbykumbi/opsadmin/pkg/seed"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/opsadmin/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store/memory"
)

// backend is a records store together with its health check and importer.
type backend interface {
	store.RecordsStore
	store.RecordsImporter
	store.HealthStore
}

// postgresBackend pairs the gorm records store with its health check.
type postgresBackend struct {
	*gormstore.RecordsStore
	*gormstore.HealthStore
}

// openPostgres connects to DATABASE_URL and returns the gorm-backed store.
func openPostgres(cfg *config.AdminConfig) (backend, error) {
	database, err := db.Connect(db.Config{Debug: cfg.LogLevel == "debug"})
	if err != nil {
		return nil, err
	}

	var opts []gormstore.Option
	if !cfg.StrictNotFound {
		opts = append(opts, gormstore.WithLenientNotFound())
	}
	records, err := gormstore.NewRecordsStore(database, opts...)
	if err != nil {
		return nil, err
	}
	return &postgresBackend{RecordsStore: records, HealthStore: gormstore.NewHealthStore(database)}, nil
}

func newMemory(cfg *config.AdminConfig) backend {
	opts := []memory.Option{memory.WithLogger(logger)}
	if !cfg.StrictNotFound {
		opts = append(opts, memory.WithLenientNotFound())
	}
	return memory.NewRecordsStore(opts...)
}

// fixtures returns the fixtures to load at startup: seedFile when set,
// otherwise the built-in fixtures when seedDefaults is on, otherwise nil.
func fixtures(seedFile string, seedDefaults bool) (*seed.Fixtures, error) {
	if seedFile != "" {
		return seed.Load(seedFile)
	}
	if seedDefaults {
		return seed.Default(), nil
	}
	return nil, nil
}

func applyFixtures(ctx context.Context, importer store.RecordsImporter, f *seed.Fixtures, source string) error {
	counts, err := seed.Apply(ctx, importer, f)
	if err != nil {
		return fmt.Errorf("loading fixtures from %s: %w", source, err)
	}

	fields := []zap.Field{zap.String("source", source)}
	for resource, n := range counts {
		fields = append(fields, zap.Int(resource.String(), n))
	}
	logger.Info("fixtures loaded", fields...)
	return nil
}
