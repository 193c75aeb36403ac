package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/opsadmin/pkg/model"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store"
)

// Ensure RecordsStore implements the store interfaces
var (
	_ store.RecordsStore    = (*RecordsStore)(nil)
	_ store.RecordsImporter = (*RecordsStore)(nil)
	_ store.HealthStore     = (*RecordsStore)(nil)
)

// collection holds the records of one resource in insertion order.
// lastID is the highest id ever assigned and survives deletions.
type collection struct {
	mu      sync.RWMutex
	records []model.Record
	lastID  model.ID
}

func (c *collection) indexOf(id model.ID) int {
	for i, r := range c.records {
		if r.RecordID() == id {
			return i
		}
	}
	return -1
}

func (c *collection) snapshot() []model.Record {
	out := make([]model.Record, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r.Clone())
	}
	return out
}

// RecordsStore implements store.RecordsStore in process memory.
// Every collection is guarded by its own lock. Records handed in or out
// are copies, so callers never alias stored state.
type RecordsStore struct {
	collections map[model.Resource]*collection
	lenient     bool
	logger      *zap.Logger
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

// WithLogger sets the logger used for debug output
func WithLogger(logger *zap.Logger) Option {
	return func(s *RecordsStore) {
		s.logger = logger
	}
}

// NewRecordsStore creates an empty RecordsStore
func NewRecordsStore(opts ...Option) *RecordsStore {
	s := &RecordsStore{
		collections: make(map[model.Resource]*collection, len(model.ResourceValues())),
		logger:      zap.NewNop(),
	}
	for _, r := range model.ResourceValues() {
		s.collections[r] = &collection{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RecordsStore) collection(resource model.Resource) (*collection, error) {
	c, ok := s.collections[resource]
	if !ok {
		return nil, store.ErrInvalidResource
	}
	return c, nil
}

func (s *RecordsStore) notFound(resource model.Resource, id model.ID) error {
	if s.lenient {
		return nil
	}
	return store.NotFound(resource, id)
}

// List returns one page of the filtered and sorted collection
func (s *RecordsStore) List(ctx context.Context, resource model.Resource, params store.ListParams) (store.ListResult, error) {
	if err := ctx.Err(); err != nil {
		return store.ListResult{}, err
	}
	c, err := s.collection(resource)
	if err != nil {
		return store.ListResult{}, err
	}

	c.mu.RLock()
	records := c.snapshot()
	c.mu.RUnlock()

	return store.Query(records, store.MatchText(params.Filter.Q), params.Sort, params.Pagination)
}

// GetOne returns a single record
func (s *RecordsStore) GetOne(ctx context.Context, resource model.Resource, id model.ID) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := s.collection(resource)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(id)
	if i < 0 {
		return nil, s.notFound(resource, id)
	}
	return c.records[i].Clone(), nil
}

// GetMany returns the records whose id is in ids, in collection order
func (s *RecordsStore) GetMany(ctx context.Context, resource model.Resource, ids []model.ID) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := s.collection(resource)
	if err != nil {
		return nil, err
	}

	wanted := make(map[model.ID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Record, 0, len(ids))
	for _, r := range c.records {
		if _, ok := wanted[r.RecordID()]; ok {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

// GetManyReference lists the records whose Target field equals params.ID
func (s *RecordsStore) GetManyReference(ctx context.Context, resource model.Resource, params store.ReferenceParams) (store.ListResult, error) {
	if err := ctx.Err(); err != nil {
		return store.ListResult{}, err
	}
	c, err := s.collection(resource)
	if err != nil {
		return store.ListResult{}, err
	}

	c.mu.RLock()
	records := c.snapshot()
	c.mu.RUnlock()

	return store.Query(records, store.MatchReference(params.Target, params.ID), params.Sort, params.Pagination)
}

// Create stores a copy of data under the next id
func (s *RecordsStore) Create(ctx context.Context, resource model.Resource, data model.Record) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := s.collection(resource)
	if err != nil {
		return nil, err
	}
	if data == nil || data.Resource() != resource {
		return nil, &store.ValidationError{Resource: resource, Fields: model.FieldErrors{{Message: "record kind does not match resource"}}}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastID++

	rec := data.Clone()
	rec.SetRecordID(c.lastID)
	c.records = append(c.records, rec)

	s.logger.Debug("record created", zap.Stringer("resource", resource), zap.Stringer("id", rec.RecordID()))
	return rec.Clone(), nil
}

// Update shallow-merges patch into the record with the given id
func (s *RecordsStore) Update(ctx context.Context, resource model.Resource, id model.ID, patch model.Patch) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := s.collection(resource)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return nil, s.notFound(resource, id)
	}
	merged, err := model.Merge(c.records[i], patch)
	if err != nil {
		return nil, store.NewValidationError(resource, err)
	}
	c.records[i] = merged

	s.logger.Debug("record updated", zap.Stringer("resource", resource), zap.Stringer("id", id), zap.Strings("fields", patch.Keys()))
	return merged.Clone(), nil
}

// UpdateMany applies patch to every existing record in ids. The patch is
// checked against every target before any record changes.
func (s *RecordsStore) UpdateMany(ctx context.Context, resource model.Resource, ids []model.ID, patch model.Patch) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := s.collection(resource)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	type change struct {
		index  int
		record model.Record
	}
	changes := make([]change, 0, len(ids))
	seen := make(map[model.ID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		i := c.indexOf(id)
		if i < 0 {
			continue
		}
		merged, err := model.Merge(c.records[i], patch)
		if err != nil {
			return nil, store.NewValidationError(resource, err)
		}
		changes = append(changes, change{index: i, record: merged})
	}

	out := make([]model.Record, 0, len(changes))
	for _, ch := range changes {
		c.records[ch.index] = ch.record
		out = append(out, ch.record.Clone())
	}
	return out, nil
}

// Delete removes the record with the given id and returns it
func (s *RecordsStore) Delete(ctx context.Context, resource model.Resource, id model.ID) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := s.collection(resource)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return nil, s.notFound(resource, id)
	}
	removed := c.records[i]
	c.records = append(c.records[:i], c.records[i+1:]...)

	s.logger.Debug("record deleted", zap.Stringer("resource", resource), zap.Stringer("id", id))
	return removed, nil
}

// DeleteMany removes every existing record in ids and returns them in ids order
func (s *RecordsStore) DeleteMany(ctx context.Context, resource model.Resource, ids []model.ID) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := s.collection(resource)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Record, 0, len(ids))
	for _, id := range ids {
		i := c.indexOf(id)
		if i < 0 {
			continue
		}
		out = append(out, c.records[i])
		c.records = append(c.records[:i], c.records[i+1:]...)
	}
	return out, nil
}

// Import upserts records keeping their ids. Records without an id get the
// next free one. The high-water mark advances past every imported id.
// A batch holding a record of another kind is rejected as a whole.
func (s *RecordsStore) Import(ctx context.Context, resource model.Resource, records []model.Record) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c, err := s.collection(resource)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range records {
		if r == nil || r.Resource() != resource {
			return 0, &store.ValidationError{Resource: resource, Fields: model.FieldErrors{{Message: "record kind does not match resource"}}}
		}
	}

	n := 0
	for _, r := range records {
		rec := r.Clone()
		if rec.RecordID() <= 0 {
			c.lastID++
			rec.SetRecordID(c.lastID)
		}
		if i := c.indexOf(rec.RecordID()); i >= 0 {
			c.records[i] = rec
		} else {
			c.records = append(c.records, rec)
		}
		if rec.RecordID() > c.lastID {
			c.lastID = rec.RecordID()
		}
		n++
	}

	s.logger.Debug("records imported", zap.Stringer("resource", resource), zap.Int("count", n))
	return n, nil
}

// Count returns the size of a collection
func (s *RecordsStore) Count(ctx context.Context, resource model.Resource) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c, err := s.collection(resource)
	if err != nil {
		return 0, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records), nil
}

// CheckConnectivity always succeeds; memory is always reachable
func (s *RecordsStore) CheckConnectivity(ctx context.Context) error {
	return ctx.Err()
}
