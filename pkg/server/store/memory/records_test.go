package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/doodlesbykumbi/opsadmin/pkg/model"
	"github.com/doodlesbykumbi/opsadmin/pkg/server/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func seedOrganizations(t *testing.T, s *RecordsStore) {
	t.Helper()
	ctx := context.Background()
	for _, org := range []*model.Organization{
		{OrgID: "ORG001", OrgName: "Tech Solutions Inc", Mnemonic: "TSI", IsActive: true},
		{OrgID: "ORG002", OrgName: "Global Finance Corp", Mnemonic: "GFC", IsActive: true},
		{OrgID: "ORG003", OrgName: "HealthCare Plus", Mnemonic: "HCP", AuthorizationMode: model.AuthorizationModeAdGroup},
	} {
		_, err := s.Create(ctx, model.ResourceOrganizations, org)
		require.NoError(t, err)
	}
}

func recordIDs(records []model.Record) []model.ID {
	out := make([]model.ID, 0, len(records))
	for _, r := range records {
		out = append(out, r.RecordID())
	}
	return out
}

func TestCreateThenGetOne(t *testing.T) {
	s := NewRecordsStore()
	ctx := context.Background()

	created, err := s.Create(ctx, model.ResourceCommands, &model.Command{
		CommandID:    "CMD001",
		CommandLabel: "Restart service",
		IsActive:     true,
		OrgID:        1,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ID(1), created.RecordID())

	got, err := s.GetOne(ctx, model.ResourceCommands, created.RecordID())
	require.NoError(t, err)
	if diff := cmp.Diff(created, got); diff != "" {
		t.Errorf("record mismatch (-created +got):\n%s", diff)
	}
}

func TestCreateCopiesInput(t *testing.T) {
	s := NewRecordsStore()
	ctx := context.Background()

	in := &model.Server{HostName: "web-01", OrgID: 1}
	created, err := s.Create(ctx, model.ResourceServers, in)
	require.NoError(t, err)

	in.HostName = "mutated"
	created.(*model.Server).HostName = "mutated too"

	got, err := s.GetOne(ctx, model.ResourceServers, created.RecordID())
	require.NoError(t, err)
	assert.Equal(t, "web-01", got.(*model.Server).HostName)
	assert.Equal(t, model.ID(0), in.ID)
}

func TestCreateRejectsWrongKind(t *testing.T) {
	s := NewRecordsStore()
	_, err := s.Create(context.Background(), model.ResourceServers, &model.Command{CommandID: "CMD001"})
	assert.ErrorIs(t, err, store.ErrValidation)
}

func TestIDsAreNeverReused(t *testing.T) {
	s := NewRecordsStore()
	ctx := context.Background()

	var last model.ID
	for i := 0; i < 5; i++ {
		r, err := s.Create(ctx, model.ResourceServers, &model.Server{HostName: fmt.Sprintf("host-%d", i)})
		require.NoError(t, err)
		assert.Greater(t, r.RecordID(), last)
		last = r.RecordID()
	}

	_, err := s.Delete(ctx, model.ResourceServers, last)
	require.NoError(t, err)

	r, err := s.Create(ctx, model.ResourceServers, &model.Server{HostName: "host-new"})
	require.NoError(t, err)
	assert.Equal(t, last+1, r.RecordID())
}

func TestOrganizationsPage(t *testing.T) {
	s := NewRecordsStore()
	seedOrganizations(t, s)

	res, err := s.List(context.Background(), model.ResourceOrganizations, store.ListParams{
		Pagination: store.Pagination{Page: 1, PerPage: 2},
		Sort:       store.Sort{Field: "orgName", Order: store.SortAscending},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "Global Finance Corp", res.Data[0].(*model.Organization).OrgName)
	assert.Equal(t, "HealthCare Plus", res.Data[1].(*model.Organization).OrgName)

	res, err = s.List(context.Background(), model.ResourceOrganizations, store.ListParams{
		Pagination: store.Pagination{Page: 2, PerPage: 2},
		Sort:       store.Sort{Field: "orgName", Order: store.SortAscending},
	})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Tech Solutions Inc", res.Data[0].(*model.Organization).OrgName)
}

func TestListTextFilter(t *testing.T) {
	s := NewRecordsStore()
	seedOrganizations(t, s)

	res, err := s.List(context.Background(), model.ResourceOrganizations, store.ListParams{
		Filter: store.Filter{Q: "finance"},
	})
	require.NoError(t, err)
	assert.Equal(t, []model.ID{2}, recordIDs(res.Data))
	assert.Equal(t, 1, res.Total)
}

func TestUpdateIsShallowMerge(t *testing.T) {
	s := NewRecordsStore()
	ctx := context.Background()

	created, err := s.Create(ctx, model.ResourceServers, &model.Server{
		HostName: "app-server-04",
		Domain:   "corp.example.com",
		AppLob:   "DevOps",
		OrgID:    2,
	})
	require.NoError(t, err)

	updated, err := s.Update(ctx, model.ResourceServers, created.RecordID(), model.Patch{"isActive": true})
	require.NoError(t, err)

	want := created.Clone().(*model.Server)
	want.IsActive = true
	if diff := cmp.Diff(model.Record(want), updated); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}

	got, err := s.GetOne(ctx, model.ResourceServers, created.RecordID())
	require.NoError(t, err)
	assert.True(t, got.(*model.Server).IsActive)
}

func TestUpdateRejectsBadPatch(t *testing.T) {
	s := NewRecordsStore()
	seedOrganizations(t, s)

	_, err := s.Update(context.Background(), model.ResourceOrganizations, 1, model.Patch{"nickname": "tsi"})
	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "nickname", verr.Fields[0].Field)

	got, err := s.GetOne(context.Background(), model.ResourceOrganizations, 1)
	require.NoError(t, err)
	assert.Equal(t, "Tech Solutions Inc", got.(*model.Organization).OrgName)
}

func TestMissingIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("strict", func(t *testing.T) {
		s := NewRecordsStore()
		_, err := s.GetOne(ctx, model.ResourceServers, 42)
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.Update(ctx, model.ResourceServers, 42, model.Patch{"isActive": true})
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.Delete(ctx, model.ResourceServers, 42)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("lenient", func(t *testing.T) {
		s := NewRecordsStore(WithLenientNotFound())
		r, err := s.GetOne(ctx, model.ResourceServers, 42)
		assert.NoError(t, err)
		assert.Nil(t, r)
		r, err = s.Delete(ctx, model.ResourceServers, 42)
		assert.NoError(t, err)
		assert.Nil(t, r)
	})
}

func TestGetManyAndReference(t *testing.T) {
	s := NewRecordsStore()
	ctx := context.Background()
	for i, orgID := range []model.ID{1, 2, 1, 3, 1} {
		_, err := s.Create(ctx, model.ResourceCommands, &model.Command{
			CommandID: fmt.Sprintf("CMD%03d", i+1),
			OrgID:     orgID,
		})
		require.NoError(t, err)
	}

	many, err := s.GetMany(ctx, model.ResourceCommands, []model.ID{5, 1, 99})
	require.NoError(t, err)
	assert.Equal(t, []model.ID{1, 5}, recordIDs(many))

	params := store.ReferenceParams{
		Target:     "orgId",
		ID:         "1",
		Pagination: store.Pagination{Page: 1, PerPage: 2},
		Sort:       store.Sort{Field: "commandId", Order: store.SortDescending},
	}
	ref, err := s.GetManyReference(ctx, model.ResourceCommands, params)
	require.NoError(t, err)

	// same answer as listing everything and filtering by hand
	all, err := s.List(ctx, model.ResourceCommands, store.ListParams{Sort: params.Sort})
	require.NoError(t, err)
	var manual []model.ID
	for _, r := range all.Data {
		if r.(*model.Command).OrgID == 1 {
			manual = append(manual, r.RecordID())
		}
	}
	assert.Equal(t, len(manual), ref.Total)
	assert.Equal(t, manual[:2], recordIDs(ref.Data))
}

func TestBulkOperations(t *testing.T) {
	s := NewRecordsStore()
	seedOrganizations(t, s)
	ctx := context.Background()

	updated, err := s.UpdateMany(ctx, model.ResourceOrganizations, []model.ID{3, 1, 77}, model.Patch{"isActive": false})
	require.NoError(t, err)
	assert.Equal(t, []model.ID{3, 1}, recordIDs(updated))
	for _, r := range updated {
		assert.False(t, r.(*model.Organization).IsActive)
	}

	_, err = s.UpdateMany(ctx, model.ResourceOrganizations, []model.ID{1, 2}, model.Patch{"isActive": "no"})
	assert.ErrorIs(t, err, store.ErrValidation)

	deleted, err := s.DeleteMany(ctx, model.ResourceOrganizations, []model.ID{2, 3, 77})
	require.NoError(t, err)
	assert.Equal(t, []model.ID{2, 3}, recordIDs(deleted))

	remaining, err := s.GetMany(ctx, model.ResourceOrganizations, []model.ID{2, 3})
	require.NoError(t, err)
	assert.Empty(t, remaining)

	n, err := s.Count(ctx, model.ResourceOrganizations)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestImport(t *testing.T) {
	s := NewRecordsStore()
	ctx := context.Background()

	n, err := s.Import(ctx, model.ResourceServers, []model.Record{
		&model.Server{ID: 10, HostName: "imported-10"},
		&model.Server{ID: 4, HostName: "imported-4"},
		&model.Server{HostName: "no-id"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = s.Import(ctx, model.ResourceServers, []model.Record{&model.Server{ID: 4, HostName: "replaced"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.GetOne(ctx, model.ResourceServers, 4)
	require.NoError(t, err)
	assert.Equal(t, "replaced", got.(*model.Server).HostName)

	created, err := s.Create(ctx, model.ResourceServers, &model.Server{HostName: "fresh"})
	require.NoError(t, err)
	assert.Equal(t, model.ID(12), created.RecordID())
}

func TestImportRejectsMixedBatch(t *testing.T) {
	s := NewRecordsStore()
	ctx := context.Background()

	n, err := s.Import(ctx, model.ResourceServers, []model.Record{
		&model.Server{ID: 1, HostName: "app-server-01"},
		&model.Command{ID: 2, CommandID: "CMD002"},
	})
	assert.ErrorIs(t, err, store.ErrValidation)
	assert.Equal(t, 0, n)

	count, err := s.Count(ctx, model.ResourceServers)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	created, err := s.Create(ctx, model.ResourceServers, &model.Server{HostName: "fresh"})
	require.NoError(t, err)
	assert.Equal(t, model.ID(1), created.RecordID())
}

func TestUpdateManyCollapsesDuplicateIDs(t *testing.T) {
	s := NewRecordsStore()
	seedOrganizations(t, s)

	updated, err := s.UpdateMany(context.Background(), model.ResourceOrganizations, []model.ID{1, 1, 2}, model.Patch{"isActive": false})
	require.NoError(t, err)
	assert.Equal(t, []model.ID{1, 2}, recordIDs(updated))
}

func TestUnknownResource(t *testing.T) {
	s := NewRecordsStore()
	_, err := s.List(context.Background(), model.Resource(42), store.ListParams{})
	assert.ErrorIs(t, err, store.ErrInvalidResource)
}

func TestCancelledContext(t *testing.T) {
	s := NewRecordsStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Create(ctx, model.ResourceServers, &model.Server{HostName: "late"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.CheckConnectivity(ctx), context.Canceled)
}

func TestConcurrentCreates(t *testing.T) {
	s := NewRecordsStore()
	ctx := context.Background()

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := s.Create(ctx, model.ResourceServers, &model.Server{HostName: fmt.Sprintf("w%d-%d", w, i)})
				assert.NoError(t, err)
				_, err = s.List(ctx, model.ResourceServers, store.ListParams{Filter: store.Filter{Q: "w"}})
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	res, err := s.List(ctx, model.ResourceServers, store.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker, res.Total)

	seen := make(map[model.ID]bool, res.Total)
	for _, r := range res.Data {
		assert.False(t, seen[r.RecordID()], "duplicate id %s", r.RecordID())
		seen[r.RecordID()] = true
	}
}

func BenchmarkList(b *testing.B) {
	s := NewRecordsStore()
	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		_, _ = s.Create(ctx, model.ResourceServers, &model.Server{
			HostName: fmt.Sprintf("host-%04d", i),
			AppLob:   model.KnownAppLobs[i%len(model.KnownAppLobs)],
			OrgID:    model.ID(i%3 + 1),
		})
	}

	b.Run("filter and sort", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_, _ = s.List(ctx, model.ResourceServers, store.ListParams{
				Pagination: store.Pagination{Page: 2, PerPage: 25},
				Sort:       store.Sort{Field: "hostName", Order: store.SortDescending},
				Filter:     store.Filter{Q: "finance"},
			})
		}
	})

	b.Run("reference", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_, _ = s.GetManyReference(ctx, model.ResourceServers, store.ReferenceParams{
				Target:     "orgId",
				ID:         "2",
				Pagination: store.Pagination{Page: 1, PerPage: 25},
			})
		}
	})
}
