// Package gorm provides the PostgreSQL backend for the store interfaces
// defined in the parent store package.
//
// Tables are created by the migrations under db/migrations. Column names
// follow GORM's naming strategy applied to the model structs, and list
// parameters that name JSON fields are translated to columns before they
// reach SQL.
package gorm
