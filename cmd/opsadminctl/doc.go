// Command opsadminctl runs the opsadmin record service, the data layer of
// the operations admin dashboard for organizations, servers and commands.
//
// # Architecture
//
// The service is organized into several packages:
//
//   - pkg/model: Record kinds and patch semantics
//   - pkg/server/store: Records store contract and query engine
//   - pkg/server/store/memory: In-memory backend
//   - pkg/server/store/gorm: PostgreSQL backend
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/server/graphql: GraphQL schema and handler
//   - pkg/seed: Fixture loading and export
//   - pkg/audit: Audit logging
//   - pkg/config: Configuration management
//
// # Quick Start
//
// Run against the in-memory store with the built-in fixtures:
//
//	opsadminctl server
//
// Run against PostgreSQL:
//
//	export DATABASE_URL=postgres://postgres@localhost/opsadmin?sslmode=disable
//	export OPSADMIN_STORE_BACKEND=postgres
//	opsadminctl db migrate
//	opsadminctl seed load fixtures.yml
//	opsadminctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - AUDIT_DATABASE_URL: Where audit messages are persisted
//   - OPSADMIN_CONFIG_PATH: Directory holding opsadmin.yml
//   - OPSADMIN_STORE_BACKEND: memory or postgres
//   - OPSADMIN_LOG_LEVEL: Log level (debug, info, warn, error)
//   - OPSADMIN_MIGRATIONS_PATH: Migrations directory (default: db/migrations)
//   - PORT: Server port (default: 8000)
package main
