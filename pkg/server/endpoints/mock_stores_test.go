package endpoints

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/opsadmin/pkg/model"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store"
)

// MockRecordsStore implements store.RecordsStore for testing using testify/mock
type MockRecordsStore struct {
	mock.Mock
}

func NewMockRecordsStore() *MockRecordsStore {
	return &MockRecordsStore{}
}

func (m *MockRecordsStore) List(ctx context.Context, resource model.Resource, params store.ListParams) (store.ListResult, error) {
	args := m.Called(resource, params)
	return args.Get(0).(store.ListResult), args.Error(1)
}

func (m *MockRecordsStore) GetOne(ctx context.Context, resource model.Resource, id model.ID) (model.Record, error) {
	args := m.Called(resource, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordsStore) GetMany(ctx context.Context, resource model.Resource, ids []model.ID) ([]model.Record, error) {
	args := m.Called(resource, ids)
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockRecordsStore) GetManyReference(ctx context.Context, resource model.Resource, params store.ReferenceParams) (store.ListResult, error) {
	args := m.Called(resource, params)
	return args.Get(0).(store.ListResult), args.Error(1)
}

func (m *MockRecordsStore) Create(ctx context.Context, resource model.Resource, data model.Record) (model.Record, error) {
	args := m.Called(resource, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordsStore) Update(ctx context.Context, resource model.Resource, id model.ID, patch model.Patch) (model.Record, error) {
	args := m.Called(resource, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordsStore) UpdateMany(ctx context.Context, resource model.Resource, ids []model.ID, patch model.Patch) ([]model.Record, error) {
	args := m.Called(resource, ids, patch)
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockRecordsStore) Delete(ctx context.Context, resource model.Resource, id model.ID) (model.Record, error) {
	args := m.Called(resource, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *MockRecordsStore) DeleteMany(ctx context.Context, resource model.Resource, ids []model.ID) ([]model.Record, error) {
	args := m.Called(resource, ids)
	return args.Get(0).([]model.Record), args.Error(1)
}

func (m *MockRecordsStore) Count(ctx context.Context, resource model.Resource) (int, error) {
	args := m.Called(resource)
	return args.Int(0), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}

var (
	_ store.RecordsStore = (*MockRecordsStore)(nil)
	_ store.HealthStore  = (*MockHealthStore)(nil)
)
