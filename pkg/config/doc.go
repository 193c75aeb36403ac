// Package config provides configuration management for opsadmin.
//
// Values are resolved in three layers, each overriding the previous one:
//
//   - Built-in defaults
//   - $OPSADMIN_CONFIG_PATH/opsadmin.yml (default /etc/opsadmin/config)
//   - OPSADMIN_* environment variables
//
// The layer each attribute came from is kept and shown by
// `opsadminctl configuration show`.
//
// # Key Configuration Options
//
//   - OPSADMIN_STORE_BACKEND: memory or postgres
//   - OPSADMIN_SEED_FILE: fixtures loaded into the memory store
//   - OPSADMIN_STRICT_NOT_FOUND: report missing ids as 404
//   - OPSADMIN_LOG_LEVEL: Logging verbosity
//   - DATABASE_URL: Database connection for the postgres backend
package config
