// Package store defines the storage contract for the opsadmin record service.
//
// Endpoints, the GraphQL schema and the CLI depend only on the interfaces
// declared here, so the in-memory and PostgreSQL backends are
// interchangeable and tests can substitute mocks.
//
// # Available Stores
//
//   - RecordsStore: list, get, create, update and delete for every resource
//   - RecordsImporter: upsert of records carrying explicit ids (fixtures)
//   - HealthStore: backend connectivity
//
// # Query Engine
//
// Query implements the list pipeline shared by backends that hold their
// collections in memory: text or reference matching, a stable sort on one
// field, then 1-based pagination.
//
// # Usage
//
//	records := memory.NewRecordsStore()
//	res, err := records.List(ctx, model.ResourceServers, store.ListParams{
//	    Pagination: store.Pagination{Page: 1, PerPage: 10},
//	    Sort:       store.Sort{Field: "hostName", Order: store.SortAscending},
//	})
//	if err != nil {
//	    if errors.Is(err, store.ErrNotFound) {
//	        // Handle not found
//	    }
//	}
package store
