package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/opsadmin/pkg/server/store"
)

// Ensure HealthStore implements store.HealthStore
var _ store.HealthStore = (*HealthStore)(nil)

// HealthStore provides health check operations using GORM
type HealthStore struct {
	db *gorm.DB
}

// NewHealthStore creates a new HealthStore
func NewHealthStore(db *gorm.DB) *HealthStore {
	return &HealthStore{db: db}
}

// CheckConnectivity runs a trivial query against the database
func (s *HealthStore) CheckConnectivity(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec("SELECT 1").Error
}
