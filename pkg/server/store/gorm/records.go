package gorm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/doodlesbykumbi/opsadmin/pkg/model"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store"
)

// Ensure RecordsStore implements the store interfaces
var (
	_ store.RecordsStore    = (*RecordsStore)(nil)
	_ store.RecordsImporter = (*RecordsStore)(nil)
)

// RecordsStore implements store.RecordsStore on PostgreSQL using GORM.
//
// Collection order is id order. Sorting uses the id as a tiebreak so
// results are stable across pages.
type RecordsStore struct {
	db      *gorm.DB
	lenient bool
	cache   sync.Map

	// columns maps JSON field names to column names per resource
	columns map[model.Resource]map[string]string
}

// Option configures a RecordsStore
type Option func(*RecordsStore)

// WithLenientNotFound makes lookups of missing ids return a nil record
// and a nil error instead of store.ErrNotFound.
func WithLenientNotFound() Option {
	return func(s *RecordsStore) {
		s.lenient = true
	}
}

// NewRecordsStore creates a new RecordsStore
func NewRecordsStore(db *gorm.DB, opts ...Option) (*RecordsStore, error) {
	s := &RecordsStore{
		db:      db,
		columns: make(map[model.Resource]map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, r := range model.ResourceValues() {
		sch, err := schema.Parse(model.New(r), &s.cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s schema: %w", r, err)
		}
		cols := make(map[string]string, len(sch.Fields))
		for _, f := range sch.Fields {
			name := strings.Split(f.Tag.Get("json"), ",")[0]
			if name == "" || name == "-" || f.DBName == "" {
				continue
			}
			cols[name] = f.DBName
		}
		s.columns[r] = cols
	}

	return s, nil
}

func (s *RecordsStore) table(ctx context.Context, resource model.Resource) (*gorm.DB, map[string]string, error) {
	cols, ok := s.columns[resource]
	if !ok {
		return nil, nil, store.ErrInvalidResource
	}
	return s.db.WithContext(ctx).Model(model.New(resource)), cols, nil
}

func (s *RecordsStore) notFound(resource model.Resource, id model.ID) error {
	if s.lenient {
		return nil
	}
	return store.NotFound(resource, id)
}

// List returns one page of the filtered and sorted collection
func (s *RecordsStore) List(ctx context.Context, resource model.Resource, params store.ListParams) (store.ListResult, error) {
	tx, cols, err := s.table(ctx, resource)
	if err != nil {
		return store.ListResult{}, err
	}

	if q := params.Filter.Q; q != "" {
		conds := make([]string, 0, len(cols))
		args := make([]interface{}, 0, len(cols))
		pattern := "%" + escapeLike(q) + "%"
		for _, col := range sortedColumns(cols) {
			conds = append(conds, fmt.Sprintf("CAST(%s AS TEXT) ILIKE ?", quote(col)))
			args = append(args, pattern)
		}
		tx = tx.Where(strings.Join(conds, " OR "), args...)
	}

	return s.page(tx, resource, cols, params.Sort, params.Pagination)
}

// GetManyReference lists the records whose Target field equals params.ID
func (s *RecordsStore) GetManyReference(ctx context.Context, resource model.Resource, params store.ReferenceParams) (store.ListResult, error) {
	tx, cols, err := s.table(ctx, resource)
	if err != nil {
		return store.ListResult{}, err
	}

	col, ok := cols[params.Target]
	if !ok {
		return store.ListResult{Data: []model.Record{}}, nil
	}
	tx = tx.Where(fmt.Sprintf("CAST(%s AS TEXT) = ?", quote(col)), params.ID)

	return s.page(tx, resource, cols, params.Sort, params.Pagination)
}

func (s *RecordsStore) page(tx *gorm.DB, resource model.Resource, cols map[string]string, order store.Sort, p store.Pagination) (store.ListResult, error) {
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return store.ListResult{}, err
	}

	query := tx
	if col, ok := cols[order.Field]; ok && (order.Order == store.SortAscending || order.Order == store.SortDescending) {
		query = query.Order(clause.OrderByColumn{
			Column: clause.Column{Name: col},
			Desc:   order.Order == store.SortDescending,
		})
	}
	query = query.Order("id")

	if p.PerPage > 0 {
		page := p.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(p.PerPage).Offset((page - 1) * p.PerPage)
	}

	data, err := find(query, resource)
	if err != nil {
		return store.ListResult{}, err
	}
	return store.ListResult{Data: data, Total: int(total)}, nil
}

// GetOne returns a single record
func (s *RecordsStore) GetOne(ctx context.Context, resource model.Resource, id model.ID) (model.Record, error) {
	if _, _, err := s.table(ctx, resource); err != nil {
		return nil, err
	}
	return s.first(s.db.WithContext(ctx), resource, id)
}

func (s *RecordsStore) first(tx *gorm.DB, resource model.Resource, id model.ID) (model.Record, error) {
	rec := model.New(resource)
	if err := tx.First(rec, int64(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.notFound(resource, id)
		}
		return nil, err
	}
	return rec, nil
}

// GetMany returns the records whose id is in ids, in id order
func (s *RecordsStore) GetMany(ctx context.Context, resource model.Resource, ids []model.ID) ([]model.Record, error) {
	tx, _, err := s.table(ctx, resource)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Record{}, nil
	}
	return find(tx.Where("id IN ?", int64s(ids)).Order("id"), resource)
}

// Create inserts a copy of data and lets the database assign its id
func (s *RecordsStore) Create(ctx context.Context, resource model.Resource, data model.Record) (model.Record, error) {
	if _, _, err := s.table(ctx, resource); err != nil {
		return nil, err
	}
	if data == nil || data.Resource() != resource {
		return nil, &store.ValidationError{Resource: resource, Fields: model.FieldErrors{{Message: "record kind does not match resource"}}}
	}

	rec := data.Clone()
	rec.SetRecordID(0)
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// Update shallow-merges patch into the record with the given id
func (s *RecordsStore) Update(ctx context.Context, resource model.Resource, id model.ID, patch model.Patch) (model.Record, error) {
	if _, _, err := s.table(ctx, resource); err != nil {
		return nil, err
	}

	var updated model.Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.first(tx.Clauses(clause.Locking{Strength: "UPDATE"}), resource, id)
		if err != nil || current == nil {
			return err
		}
		merged, err := model.Merge(current, patch)
		if err != nil {
			return store.NewValidationError(resource, err)
		}
		if err := tx.Save(merged).Error; err != nil {
			return err
		}
		updated = merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateMany applies patch to every existing record in ids and returns
// them in ids order. Either every record is updated or none is.
func (s *RecordsStore) UpdateMany(ctx context.Context, resource model.Resource, ids []model.ID, patch model.Patch) ([]model.Record, error) {
	if _, _, err := s.table(ctx, resource); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Record{}, nil
	}

	var out []model.Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := find(tx.Model(model.New(resource)).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id IN ?", int64s(ids)), resource)
		if err != nil {
			return err
		}

		out = make([]model.Record, 0, len(current))
		for _, rec := range inOrder(current, ids) {
			merged, err := model.Merge(rec, patch)
			if err != nil {
				return store.NewValidationError(resource, err)
			}
			if err := tx.Save(merged).Error; err != nil {
				return err
			}
			out = append(out, merged)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the record with the given id and returns it
func (s *RecordsStore) Delete(ctx context.Context, resource model.Resource, id model.ID) (model.Record, error) {
	if _, _, err := s.table(ctx, resource); err != nil {
		return nil, err
	}

	var removed model.Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.first(tx, resource, id)
		if err != nil || rec == nil {
			return err
		}
		if err := tx.Delete(rec).Error; err != nil {
			return err
		}
		removed = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// DeleteMany removes every existing record in ids and returns them in ids order
func (s *RecordsStore) DeleteMany(ctx context.Context, resource model.Resource, ids []model.ID) ([]model.Record, error) {
	if _, _, err := s.table(ctx, resource); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Record{}, nil
	}

	var out []model.Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := find(tx.Model(model.New(resource)).Where("id IN ?", int64s(ids)), resource)
		if err != nil {
			return err
		}
		if len(current) == 0 {
			out = []model.Record{}
			return nil
		}
		if err := tx.Where("id IN ?", int64s(ids)).Delete(model.New(resource)).Error; err != nil {
			return err
		}
		out = inOrder(current, ids)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of rows in a collection
func (s *RecordsStore) Count(ctx context.Context, resource model.Resource) (int, error) {
	tx, _, err := s.table(ctx, resource)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

// Import upserts records keeping their ids, then moves the id sequence
// past the highest stored id so later inserts never collide.
func (s *RecordsStore) Import(ctx context.Context, resource model.Resource, records []model.Record) (int, error) {
	if _, _, err := s.table(ctx, resource); err != nil {
		return 0, err
	}

	for _, r := range records {
		if r == nil || r.Resource() != resource {
			return 0, &store.ValidationError{Resource: resource, Fields: model.FieldErrors{{Message: "record kind does not match resource"}}}
		}
	}

	n := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range records {
			rec := r.Clone()
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(rec).Error; err != nil {
				return err
			}
			n++
		}

		table := tableName(resource)
		return tx.Exec(fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), GREATEST((SELECT COALESCE(MAX(id), 0) FROM %s), 1))",
			table, quote(table),
		)).Error
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func find(tx *gorm.DB, resource model.Resource) ([]model.Record, error) {
	switch resource {
	case model.ResourceOrganizations:
		return findAll[*model.Organization](tx)
	case model.ResourceServers:
		return findAll[*model.Server](tx)
	case model.ResourceCommands:
		return findAll[*model.Command](tx)
	}
	return nil, store.ErrInvalidResource
}

func findAll[T model.Record](tx *gorm.DB) ([]model.Record, error) {
	var rows []T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
	}
	return out, nil
}

func inOrder(records []model.Record, ids []model.ID) []model.Record {
	byID := make(map[model.ID]model.Record, len(records))
	for _, r := range records {
		byID[r.RecordID()] = r
	}
	out := make([]model.Record, 0, len(records))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
			delete(byID, id)
		}
	}
	return out
}

func int64s(ids []model.ID) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func tableName(resource model.Resource) string {
	if t, ok := model.New(resource).(schema.Tabler); ok {
		return t.TableName()
	}
	return resource.String()
}

func sortedColumns(cols map[string]string) []string {
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, cols[name])
	}
	return out
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
