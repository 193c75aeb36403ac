package store

import "context"

// HealthStore reports whether the backing storage can serve requests
type HealthStore interface {
	// CheckConnectivity verifies the backend is reachable
	CheckConnectivity(ctx context.Context) error
}
