package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/doodlesbykumbi/opsadmin/pkg/model"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAscending  SortOrder = "ASC"
	SortDescending SortOrder = "DESC"
)

// ParseSortOrder normalizes an order value. Anything other than asc or desc
// (in any case) yields the empty order, which disables sorting.
func ParseSortOrder(s string) SortOrder {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(SortAscending):
		return SortAscending
	case string(SortDescending):
		return SortDescending
	}
	return ""
}

// Pagination selects a 1-based page. PerPage <= 0 disables slicing.
type Pagination struct {
	Page    int
	PerPage int
}

// Sort orders results by a single field.
type Sort struct {
	Field string
	Order SortOrder
}

// Filter restricts a list. Q matches any field, case-insensitively.
type Filter struct {
	Q string
}

// ListParams are the parameters of RecordsStore.List.
type ListParams struct {
	Pagination Pagination
	Sort       Sort
	Filter     Filter
}

// ReferenceParams are the parameters of RecordsStore.GetManyReference.
// Records match when the string form of their Target field equals ID.
type ReferenceParams struct {
	Target     string
	ID         string
	Pagination Pagination
	Sort       Sort
}

// ListResult is a page of records along with the unpaginated match count.
type ListResult struct {
	Data  []model.Record
	Total int
}

// RecordsStore abstracts record storage for every resource.
//
// Lookups by id return ErrNotFound when the record is absent, unless the
// implementation is configured to be lenient, in which case they return a
// nil record and a nil error. Bulk operations skip missing ids.
type RecordsStore interface {
	// List returns one page of the filtered and sorted collection
	List(ctx context.Context, resource model.Resource, params ListParams) (ListResult, error)

	// GetOne returns a single record
	GetOne(ctx context.Context, resource model.Resource, id model.ID) (model.Record, error)

	// GetMany returns the records whose id is in ids, in collection order
	GetMany(ctx context.Context, resource model.Resource, ids []model.ID) ([]model.Record, error)

	// GetManyReference lists the records pointing at another record
	GetManyReference(ctx context.Context, resource model.Resource, params ReferenceParams) (ListResult, error)

	// Create stores a new record under a fresh id
	Create(ctx context.Context, resource model.Resource, data model.Record) (model.Record, error)

	// Update shallow-merges patch into an existing record
	Update(ctx context.Context, resource model.Resource, id model.ID, patch model.Patch) (model.Record, error)

	// UpdateMany applies the same patch to every listed record
	UpdateMany(ctx context.Context, resource model.Resource, ids []model.ID, patch model.Patch) ([]model.Record, error)

	// Delete removes and returns a record
	Delete(ctx context.Context, resource model.Resource, id model.ID) (model.Record, error)

	// DeleteMany removes and returns the listed records
	DeleteMany(ctx context.Context, resource model.Resource, ids []model.ID) ([]model.Record, error)

	// Count returns the number of records in a collection
	Count(ctx context.Context, resource model.Resource) (int, error)
}

// RecordsImporter loads records with explicit ids, replacing existing ones.
type RecordsImporter interface {
	// Import upserts records and returns how many were written
	Import(ctx context.Context, resource model.Resource, records []model.Record) (int, error)
}

// ParseResource resolves a resource name from a route or argument.
func ParseResource(name string) (model.Resource, error) {
	r, err := model.ResourceString(strings.ToLower(name))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidResource, name)
	}
	return r, nil
}
