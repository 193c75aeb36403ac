package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/opsadmin/pkg/audit"
	"github.com/doodlesbykumbi/opsadmin/pkg/config"
	"github.com/doodlesbykumbi/opsadmin/pkg/model"
	"github.com/doodlesbykumbi/opsadmin/pkg/server"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/middleware"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store"
)

// ListResponse is the body of a list or reference query
type ListResponse struct {
	Data  []map[string]any `json:"data"`
	Total int              `json:"total"`
}

// ManyResponse is the body of a bulk read, update or delete
type ManyResponse struct {
	Data []map[string]any `json:"data"`
}

// OneResponse is the body of a single-record operation
type OneResponse struct {
	Data map[string]any `json:"data"`
}

// ResourceSummary names a resource and its record count
type ResourceSummary struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// RegisterRecordsEndpoints registers the REST surface of the records store
func RegisterRecordsEndpoints(s *server.Server) {
	records := s.Records
	cfg := s.Config
	logger := s.Logger

	apiRouter := s.Router.PathPrefix("/api").Subrouter()

	// GET /api/resources - Resource names with record counts
	apiRouter.HandleFunc("/resources", handleResources(records, logger)).Methods("GET")

	// GET /api/organizations/{id}/{servers|commands} - Records owned by an organization
	apiRouter.HandleFunc(
		"/organizations/{id}/{reference:servers|commands}",
		handleOrganizationReferences(records, cfg, logger),
	).Methods("GET")

	// GET /api/{resource} - List, getMany (?id=) or getManyReference (?target=&targetId=)
	apiRouter.HandleFunc("/{resource}", handleList(records, cfg, logger)).Methods("GET")

	// POST /api/{resource} - Create
	apiRouter.HandleFunc("/{resource}", handleCreate(records, logger)).Methods("POST")

	// PATCH /api/{resource}?id= - Bulk update
	apiRouter.HandleFunc("/{resource}", handleUpdateMany(records, logger)).Methods("PATCH")

	// DELETE /api/{resource}?id= - Bulk delete
	apiRouter.HandleFunc("/{resource}", handleDeleteMany(records, logger)).Methods("DELETE")

	apiRouter.HandleFunc("/{resource}/{id}", handleGetOne(records, logger)).Methods("GET")
	apiRouter.HandleFunc("/{resource}/{id}", handleUpdate(records, logger)).Methods("PUT", "PATCH")
	apiRouter.HandleFunc("/{resource}/{id}", handleDelete(records, logger)).Methods("DELETE")
}

func handleResources(records store.RecordsStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resources := model.ResourceValues()
		summaries := make([]ResourceSummary, 0, len(resources))
		for _, resource := range resources {
			count, err := records.Count(r.Context(), resource)
			if err != nil {
				respondWithStoreError(w, logger, err)
				return
			}
			summaries = append(summaries, ResourceSummary{
				Name:  resource.String(),
				Label: resourceLabel(resource),
				Count: count,
			})
		}
		respondWithJSON(w, http.StatusOK, map[string]any{"data": summaries})
	}
}

func handleList(records store.RecordsStore, cfg *config.AdminConfig, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource, ok := resourceFromRequest(w, r)
		if !ok {
			return
		}
		query := r.URL.Query()

		if _, ok := query["id"]; ok {
			ids, ok := idsFromRequest(w, r)
			if !ok {
				return
			}
			found, err := records.GetMany(r.Context(), resource, ids)
			if err != nil {
				respondWithStoreError(w, logger, err)
				return
			}
			respondWithRecords(w, logger, http.StatusOK, found)
			return
		}

		pagination, sort, err := listOptions(query, cfg)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, errorBody("bad_request", err.Error()))
			return
		}

		var result store.ListResult
		if target := query.Get("target"); target != "" {
			result, err = records.GetManyReference(r.Context(), resource, store.ReferenceParams{
				Target:     target,
				ID:         query.Get("targetId"),
				Pagination: pagination,
				Sort:       sort,
			})
		} else {
			result, err = records.List(r.Context(), resource, store.ListParams{
				Pagination: pagination,
				Sort:       sort,
				Filter:     store.Filter{Q: query.Get("q")},
			})
		}
		if err != nil {
			respondWithStoreError(w, logger, err)
			return
		}
		respondWithList(w, logger, resource, pagination, result)
	}
}

func handleOrganizationReferences(records store.RecordsStore, cfg *config.AdminConfig, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		orgID, err := model.ParseID(vars["id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, errorBody("bad_request", err.Error()))
			return
		}
		resource, err := store.ParseResource(vars["reference"])
		if err != nil {
			respondWithStoreError(w, logger, err)
			return
		}

		pagination, sort, err := listOptions(r.URL.Query(), cfg)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, errorBody("bad_request", err.Error()))
			return
		}

		result, err := records.GetManyReference(r.Context(), resource, store.ReferenceParams{
			Target:     "orgId",
			ID:         orgID.String(),
			Pagination: pagination,
			Sort:       sort,
		})
		if err != nil {
			respondWithStoreError(w, logger, err)
			return
		}
		respondWithList(w, logger, resource, pagination, result)
	}
}

func handleGetOne(records store.RecordsStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource, id, ok := resourceAndID(w, r)
		if !ok {
			return
		}

		record, err := records.GetOne(r.Context(), resource, id)
		if err != nil {
			respondWithStoreError(w, logger, err)
			return
		}
		respondWithRecord(w, logger, http.StatusOK, record)
	}
}

func handleCreate(records store.RecordsStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource, ok := resourceFromRequest(w, r)
		if !ok {
			return
		}
		patch, ok := patchFromRequest(w, r)
		if !ok {
			return
		}

		event := recordEvent(r, audit.OperationCreate, resource)

		record, err := model.FromPatch(resource, patch)
		if err == nil {
			err = model.Validate(record)
		}
		if err != nil {
			verr := store.NewValidationError(resource, err)
			auditFailure(event, verr)
			respondWithStoreError(w, logger, verr)
			return
		}

		created, err := records.Create(r.Context(), resource, record)
		if err != nil {
			auditFailure(event, err)
			respondWithStoreError(w, logger, err)
			return
		}

		event.IDs = []string{created.RecordID().String()}
		event.Success = true
		audit.Log(event)

		respondWithRecord(w, logger, http.StatusCreated, created)
	}
}

func handleUpdate(records store.RecordsStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource, id, ok := resourceAndID(w, r)
		if !ok {
			return
		}
		patch, ok := patchFromRequest(w, r)
		if !ok {
			return
		}

		event := recordEvent(r, audit.OperationUpdate, resource)
		event.IDs = []string{id.String()}

		updated, err := records.Update(r.Context(), resource, id, patch)
		if err != nil {
			auditFailure(event, err)
			respondWithStoreError(w, logger, err)
			return
		}

		event.Success = true
		audit.Log(event)

		respondWithRecord(w, logger, http.StatusOK, updated)
	}
}

func handleUpdateMany(records store.RecordsStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource, ok := resourceFromRequest(w, r)
		if !ok {
			return
		}
		ids, ok := idsFromRequest(w, r)
		if !ok {
			return
		}
		patch, ok := patchFromRequest(w, r)
		if !ok {
			return
		}

		event := recordEvent(r, audit.OperationUpdateMany, resource)
		event.IDs = idStrings(ids)

		updated, err := records.UpdateMany(r.Context(), resource, ids, patch)
		if err != nil {
			auditFailure(event, err)
			respondWithStoreError(w, logger, err)
			return
		}

		event.IDs = recordIDs(updated)
		event.Success = true
		audit.Log(event)

		respondWithRecords(w, logger, http.StatusOK, updated)
	}
}

func handleDelete(records store.RecordsStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource, id, ok := resourceAndID(w, r)
		if !ok {
			return
		}

		event := recordEvent(r, audit.OperationDelete, resource)
		event.IDs = []string{id.String()}

		deleted, err := records.Delete(r.Context(), resource, id)
		if err != nil {
			auditFailure(event, err)
			respondWithStoreError(w, logger, err)
			return
		}

		if deleted != nil {
			event.Success = true
			audit.Log(event)
		}

		respondWithRecord(w, logger, http.StatusOK, deleted)
	}
}

func handleDeleteMany(records store.RecordsStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource, ok := resourceFromRequest(w, r)
		if !ok {
			return
		}
		ids, ok := idsFromRequest(w, r)
		if !ok {
			return
		}

		event := recordEvent(r, audit.OperationDeleteMany, resource)
		event.IDs = idStrings(ids)

		deleted, err := records.DeleteMany(r.Context(), resource, ids)
		if err != nil {
			auditFailure(event, err)
			respondWithStoreError(w, logger, err)
			return
		}

		event.IDs = recordIDs(deleted)
		event.Success = true
		audit.Log(event)

		respondWithRecords(w, logger, http.StatusOK, deleted)
	}
}

func resourceFromRequest(w http.ResponseWriter, r *http.Request) (model.Resource, bool) {
	resource, err := store.ParseResource(mux.Vars(r)["resource"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, errorBody("invalid_resource", err.Error()))
		return 0, false
	}
	return resource, true
}

func resourceAndID(w http.ResponseWriter, r *http.Request) (model.Resource, model.ID, bool) {
	resource, ok := resourceFromRequest(w, r)
	if !ok {
		return 0, 0, false
	}
	id, err := model.ParseID(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, errorBody("bad_request", err.Error()))
		return 0, 0, false
	}
	return resource, id, true
}

// idsFromRequest accepts repeated and comma-separated id parameters:
// ?id=1&id=2 and ?id=1,2 are equivalent.
func idsFromRequest(w http.ResponseWriter, r *http.Request) ([]model.ID, bool) {
	var raw []string
	for _, value := range r.URL.Query()["id"] {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				raw = append(raw, part)
			}
		}
	}
	if len(raw) == 0 {
		respondWithError(w, http.StatusBadRequest, errorBody("bad_request", "id parameter required"))
		return nil, false
	}

	ids, err := model.ParseIDs(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, errorBody("bad_request", err.Error()))
		return nil, false
	}
	return ids, true
}

func patchFromRequest(w http.ResponseWriter, r *http.Request) (model.Patch, bool) {
	var patch model.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil || patch == nil {
		respondWithError(w, http.StatusBadRequest, errorBody("bad_request", "request body must be a JSON object"))
		return nil, false
	}
	return patch, true
}

// listOptions reads page, perPage, sort and order. A page without a
// perPage uses the configured default page size.
func listOptions(query map[string][]string, cfg *config.AdminConfig) (store.Pagination, store.Sort, error) {
	var pagination store.Pagination
	var sort store.Sort

	page, err := intParam(query, "page")
	if err != nil {
		return pagination, sort, err
	}
	perPage, err := intParam(query, "perPage")
	if err != nil {
		return pagination, sort, err
	}
	if _, set := query["perPage"]; !set && page > 0 {
		perPage = cfg.DefaultPerPage
	}
	pagination = store.Pagination{Page: page, PerPage: cfg.ClampPerPage(perPage)}

	if field := first(query, "sort"); field != "" {
		sort.Field = field
		sort.Order = store.SortAscending
		if order := first(query, "order"); order != "" {
			sort.Order = store.ParseSortOrder(order)
		}
	}
	return pagination, sort, nil
}

func intParam(query map[string][]string, name string) (int, error) {
	value := first(query, name)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return n, nil
}

func first(query map[string][]string, name string) string {
	if values := query[name]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

func recordEvent(r *http.Request, operation string, resource model.Resource) audit.RecordEvent {
	return audit.RecordEvent{
		Operation: operation,
		Resource:  resource.String(),
		ClientIP:  r.RemoteAddr,
		RequestID: middleware.RequestIDFromContext(r.Context()),
	}
}

func auditFailure(event audit.RecordEvent, err error) {
	event.Success = false
	event.ErrorMessage = err.Error()
	audit.Log(event)
}

func idStrings(ids []model.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func recordIDs(records []model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.RecordID().String()
	}
	return out
}

func resourceLabel(resource model.Resource) string {
	name := resource.String()
	return strings.ToUpper(name[:1]) + name[1:]
}
