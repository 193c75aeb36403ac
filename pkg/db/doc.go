// Package db opens the PostgreSQL connection behind the postgres store backend.
//
//	database, err := db.Connect(db.Config{Debug: cfg.LogLevel == "debug"})
//	if err != nil {
//	    return err
//	}
//	records := gormstore.NewRecordsStore(database)
//
// The schema itself is owned by the migrations under db/migrations and
// applied with `opsadminctl db migrate`.
package db
