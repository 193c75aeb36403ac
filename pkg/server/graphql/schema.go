package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/graphql-go/graphql"

	"github.com/doodlesbykumbi/opsadmin/pkg/audit"
	"github.com/doodlesbykumbi/opsadmin/pkg/config"
	"github.com/doodlesbykumbi/opsadmin/pkg/model"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/middleware"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store"
)

type clientIPKey struct{}

// WithClientIP records the caller's address for the audit trail.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

type resolver struct {
	records store.RecordsStore
	cfg     *config.AdminConfig
}

// NewSchema builds the schema exposing every operation of records for
// organizations, servers and commands.
func NewSchema(records store.RecordsStore, cfg *config.AdminConfig) (graphql.Schema, error) {
	r := &resolver{records: records, cfg: cfg}

	queries := graphql.Fields{}
	mutations := graphql.Fields{}
	for _, k := range kinds {
		for name, field := range r.queryFields(k) {
			queries[name] = field
		}
		for name, field := range r.mutationFields(k) {
			mutations[name] = field
		}
	}

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    graphql.NewObject(graphql.ObjectConfig{Name: "Query", Fields: queries}),
		Mutation: graphql.NewObject(graphql.ObjectConfig{Name: "Mutation", Fields: mutations}),
	})
}

var (
	idArg   = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)}
	idsArg  = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.Int)))}
	dataArg = &graphql.ArgumentConfig{
		Type:        graphql.NewNonNull(graphql.String),
		Description: "JSON object of field values",
	}
)

func (r *resolver) queryFields(k kind) graphql.Fields {
	single := strings.ToLower(k.name[:1]) + k.name[1:]
	return graphql.Fields{
		"all" + k.name + "s": &graphql.Field{
			Type: k.list,
			Args: graphql.FieldConfigArgument{
				"page":     &graphql.ArgumentConfig{Type: graphql.Int},
				"perPage":  &graphql.ArgumentConfig{Type: graphql.Int},
				"sort":     &graphql.ArgumentConfig{Type: graphql.String},
				"order":    &graphql.ArgumentConfig{Type: graphql.String},
				"q":        &graphql.ArgumentConfig{Type: graphql.String},
				"target":   &graphql.ArgumentConfig{Type: graphql.String},
				"targetId": &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return r.list(p, k.resource)
			},
		},
		single: &graphql.Field{
			Type: k.object,
			Args: graphql.FieldConfigArgument{"id": idArg},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				record, err := r.records.GetOne(p.Context, k.resource, argID(p))
				if err != nil {
					return nil, err
				}
				return view(record)
			},
		},
		"many" + k.name + "s": &graphql.Field{
			Type: graphql.NewList(k.object),
			Args: graphql.FieldConfigArgument{"ids": idsArg},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				found, err := r.records.GetMany(p.Context, k.resource, argIDs(p))
				if err != nil {
					return nil, err
				}
				return views(found)
			},
		},
	}
}

func (r *resolver) mutationFields(k kind) graphql.Fields {
	return graphql.Fields{
		"create" + k.name: &graphql.Field{
			Type: k.object,
			Args: graphql.FieldConfigArgument{"data": dataArg},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				event := recordEvent(p.Context, audit.OperationCreate, k.resource, nil)
				created, err := r.create(p, k.resource)
				if err != nil {
					return nil, logFailure(event, err)
				}
				event.IDs = []string{created.RecordID().String()}
				logSuccess(event)
				return view(created)
			},
		},
		"update" + k.name: &graphql.Field{
			Type: k.object,
			Args: graphql.FieldConfigArgument{"id": idArg, "data": dataArg},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id := argID(p)
				event := recordEvent(p.Context, audit.OperationUpdate, k.resource, []model.ID{id})
				patch, err := argPatch(p, k.resource)
				if err != nil {
					return nil, logFailure(event, err)
				}
				updated, err := r.records.Update(p.Context, k.resource, id, patch)
				if err != nil {
					return nil, logFailure(event, err)
				}
				logSuccess(event)
				return view(updated)
			},
		},
		"updateMany" + k.name + "s": &graphql.Field{
			Type: graphql.NewList(k.object),
			Args: graphql.FieldConfigArgument{"ids": idsArg, "data": dataArg},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				ids := argIDs(p)
				event := recordEvent(p.Context, audit.OperationUpdateMany, k.resource, ids)
				patch, err := argPatch(p, k.resource)
				if err != nil {
					return nil, logFailure(event, err)
				}
				updated, err := r.records.UpdateMany(p.Context, k.resource, ids, patch)
				if err != nil {
					return nil, logFailure(event, err)
				}
				event.IDs = recordIDs(updated)
				logSuccess(event)
				return views(updated)
			},
		},
		"delete" + k.name: &graphql.Field{
			Type: k.object,
			Args: graphql.FieldConfigArgument{"id": idArg},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id := argID(p)
				event := recordEvent(p.Context, audit.OperationDelete, k.resource, []model.ID{id})
				deleted, err := r.records.Delete(p.Context, k.resource, id)
				if err != nil {
					return nil, logFailure(event, err)
				}
				if deleted != nil {
					logSuccess(event)
				}
				return view(deleted)
			},
		},
		"deleteMany" + k.name + "s": &graphql.Field{
			Type: graphql.NewList(k.object),
			Args: graphql.FieldConfigArgument{"ids": idsArg},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				ids := argIDs(p)
				event := recordEvent(p.Context, audit.OperationDeleteMany, k.resource, ids)
				deleted, err := r.records.DeleteMany(p.Context, k.resource, ids)
				if err != nil {
					return nil, logFailure(event, err)
				}
				event.IDs = recordIDs(deleted)
				logSuccess(event)
				return views(deleted)
			},
		},
	}
}

func (r *resolver) list(p graphql.ResolveParams, resource model.Resource) (interface{}, error) {
	pagination := store.Pagination{}
	if page, ok := p.Args["page"].(int); ok {
		pagination.Page = page
	}
	if perPage, ok := p.Args["perPage"].(int); ok {
		pagination.PerPage = perPage
	} else if pagination.Page > 0 {
		pagination.PerPage = r.cfg.DefaultPerPage
	}
	pagination.PerPage = r.cfg.ClampPerPage(pagination.PerPage)

	var sort store.Sort
	if field, _ := p.Args["sort"].(string); field != "" {
		sort = store.Sort{Field: field, Order: store.SortAscending}
		if order, _ := p.Args["order"].(string); order != "" {
			sort.Order = store.ParseSortOrder(order)
		}
	}

	var result store.ListResult
	var err error
	if target, _ := p.Args["target"].(string); target != "" {
		targetID, _ := p.Args["targetId"].(string)
		result, err = r.records.GetManyReference(p.Context, resource, store.ReferenceParams{
			Target:     target,
			ID:         targetID,
			Pagination: pagination,
			Sort:       sort,
		})
	} else {
		q, _ := p.Args["q"].(string)
		result, err = r.records.List(p.Context, resource, store.ListParams{
			Pagination: pagination,
			Sort:       sort,
			Filter:     store.Filter{Q: q},
		})
	}
	if err != nil {
		return nil, err
	}

	data, err := views(result.Data)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"data": data, "total": result.Total}, nil
}

func (r *resolver) create(p graphql.ResolveParams, resource model.Resource) (model.Record, error) {
	patch, err := argPatch(p, resource)
	if err != nil {
		return nil, err
	}

	record, err := model.FromPatch(resource, patch)
	if err == nil {
		err = model.Validate(record)
	}
	if err != nil {
		return nil, store.NewValidationError(resource, err)
	}
	return r.records.Create(p.Context, resource, record)
}

func argID(p graphql.ResolveParams) model.ID {
	id, _ := p.Args["id"].(int)
	return model.ID(id)
}

func argIDs(p graphql.ResolveParams) []model.ID {
	raw, _ := p.Args["ids"].([]interface{})
	ids := make([]model.ID, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(int); ok {
			ids = append(ids, model.ID(id))
		}
	}
	return ids
}

func argPatch(p graphql.ResolveParams, resource model.Resource) (model.Patch, error) {
	data, _ := p.Args["data"].(string)
	var patch model.Patch
	if err := json.Unmarshal([]byte(data), &patch); err != nil || patch == nil {
		return nil, store.NewValidationError(resource, fmt.Errorf("data must be a JSON object"))
	}
	return patch, nil
}

func view(record model.Record) (interface{}, error) {
	if record == nil {
		return nil, nil
	}
	return model.View(record)
}

func views(records []model.Record) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(records))
	for _, record := range records {
		v, err := model.View(record)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func recordEvent(ctx context.Context, operation string, resource model.Resource, ids []model.ID) audit.RecordEvent {
	clientIP, _ := ctx.Value(clientIPKey{}).(string)
	event := audit.RecordEvent{
		Operation: operation,
		Resource:  resource.String(),
		ClientIP:  clientIP,
		RequestID: middleware.RequestIDFromContext(ctx),
	}
	for _, id := range ids {
		event.IDs = append(event.IDs, id.String())
	}
	return event
}

func logSuccess(event audit.RecordEvent) {
	event.Success = true
	audit.Log(event)
}

func logFailure(event audit.RecordEvent, err error) error {
	event.ErrorMessage = err.Error()
	audit.Log(event)
	return err
}

func recordIDs(records []model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.RecordID().String()
	}
	return out
}
