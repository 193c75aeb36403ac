package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/opsadmin/pkg/model"
)

func servers() []model.Record {
	return []model.Record{
		&model.Server{ID: 1, HostName: "web-01", AppLob: "Finance", IsActive: true, OrgID: 1},
		&model.Server{ID: 2, HostName: "db-01", AppLob: "HR", IsActive: false, OrgID: 2},
		&model.Server{ID: 3, HostName: "web-02", AppLob: "Finance", IsActive: true, OrgID: 1},
		&model.Server{ID: 4, HostName: "cache-01", AppLob: "DevOps", IsActive: false, OrgID: 3},
		&model.Server{ID: 5, HostName: "WEB-03", AppLob: "Analytics", IsActive: true, OrgID: 2},
	}
}

func ids(records []model.Record) []model.ID {
	out := make([]model.ID, 0, len(records))
	for _, r := range records {
		out = append(out, r.RecordID())
	}
	return out
}

func TestQueryTextFilter(t *testing.T) {
	tests := []struct {
		name string
		q    string
		want []model.ID
	}{
		{name: "empty q keeps everything", q: "", want: []model.ID{1, 2, 3, 4, 5}},
		{name: "case insensitive substring", q: "web", want: []model.ID{1, 3, 5}},
		{name: "matches non-string fields", q: "true", want: []model.ID{1, 3, 5}},
		{name: "no match", q: "mainframe", want: []model.ID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Query(servers(), MatchText(tt.q), Sort{}, Pagination{})
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, ids(res.Data)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, len(tt.want), res.Total)
		})
	}
}

func TestQuerySort(t *testing.T) {
	tests := []struct {
		name string
		sort Sort
		want []model.ID
	}{
		{name: "string ascending", sort: Sort{Field: "appLob", Order: SortAscending}, want: []model.ID{5, 4, 1, 3, 2}},
		{name: "string descending keeps ties stable", sort: Sort{Field: "appLob", Order: SortDescending}, want: []model.ID{2, 1, 3, 4, 5}},
		{name: "numeric", sort: Sort{Field: "orgId", Order: SortDescending}, want: []model.ID{4, 2, 5, 1, 3}},
		{name: "bool", sort: Sort{Field: "isActive", Order: SortAscending}, want: []model.ID{2, 4, 1, 3, 5}},
		{name: "missing order leaves collection order", sort: Sort{Field: "hostName"}, want: []model.ID{1, 2, 3, 4, 5}},
		{name: "unknown field leaves collection order", sort: Sort{Field: "nope", Order: SortAscending}, want: []model.ID{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Query(servers(), nil, tt.sort, Pagination{})
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, ids(res.Data)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQueryPaginationCoversCollection(t *testing.T) {
	for perPage := 1; perPage <= 6; perPage++ {
		t.Run(fmt.Sprintf("perPage=%d", perPage), func(t *testing.T) {
			var seen []model.ID
			for page := 1; page <= 6; page++ {
				res, err := Query(servers(), nil, Sort{Field: "hostName", Order: SortAscending}, Pagination{Page: page, PerPage: perPage})
				require.NoError(t, err)
				assert.Equal(t, 5, res.Total)
				assert.LessOrEqual(t, len(res.Data), perPage)
				seen = append(seen, ids(res.Data)...)
			}
			assert.ElementsMatch(t, []model.ID{1, 2, 3, 4, 5}, seen)
		})
	}
}

func TestQueryPaginationEdges(t *testing.T) {
	res, err := Query(servers(), nil, Sort{}, Pagination{Page: 0, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, []model.ID{1, 2}, ids(res.Data))

	res, err = Query(servers(), nil, Sort{}, Pagination{Page: 9, PerPage: 2})
	require.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.Equal(t, 5, res.Total)
}

func TestQueryReference(t *testing.T) {
	res, err := Query(servers(), MatchReference("orgId", "2"), Sort{Field: "hostName", Order: SortAscending}, Pagination{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, []model.ID{5, 2}, ids(res.Data))
	assert.Equal(t, 2, res.Total)

	res, err = Query(servers(), MatchReference("ownerId", "2"), Sort{}, Pagination{})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestCompareValues(t *testing.T) {
	assert.Equal(t, -1, compareValues(nil, "a"))
	assert.Equal(t, 1, compareValues("a", nil))
	assert.Equal(t, 0, compareValues(nil, nil))
	assert.Equal(t, -1, compareValues(int64(2), int64(10)))
	assert.Equal(t, 1, compareValues(2.5, int64(2)))
	assert.Equal(t, -1, compareValues(false, true))
	assert.Equal(t, -1, compareValues("B", "a"))
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortAscending, ParseSortOrder("asc"))
	assert.Equal(t, SortDescending, ParseSortOrder(" DESC "))
	assert.Equal(t, SortOrder(""), ParseSortOrder("sideways"))
}

func TestParseResource(t *testing.T) {
	r, err := ParseResource("Commands")
	require.NoError(t, err)
	assert.Equal(t, model.ResourceCommands, r)

	_, err = ParseResource("widgets")
	assert.ErrorIs(t, err, ErrInvalidResource)
}

func TestValidationError(t *testing.T) {
	_, mergeErr := model.Merge(&model.Server{ID: 1}, model.Patch{"color": "red"})
	err := error(NewValidationError(model.ResourceServers, mergeErr))

	assert.True(t, errors.Is(err, ErrValidation))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "color", verr.Fields[0].Field)
	assert.Contains(t, err.Error(), "invalid server")

	assert.ErrorIs(t, NotFound(model.ResourceServers, 7), ErrNotFound)
}
