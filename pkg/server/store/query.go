package store

import (
	"sort"
	"strings"

	"github.com/doodlesbykumbi/opsadmin/pkg/model"
)

// Matcher reports whether a record, given as its JSON fields, belongs in a result.
type Matcher func(fields map[string]any) bool

// MatchText matches records where any field's string form contains q,
// ignoring case. An empty q matches everything.
func MatchText(q string) Matcher {
	if q == "" {
		return nil
	}
	needle := strings.ToLower(q)
	return func(fields map[string]any) bool {
		for _, v := range fields {
			if strings.Contains(strings.ToLower(model.FormatValue(v)), needle) {
				return true
			}
		}
		return false
	}
}

// MatchReference matches records whose target field equals id once both
// are reduced to their string form, so 3 and "3" are the same reference.
func MatchReference(target, id string) Matcher {
	return func(fields map[string]any) bool {
		v, ok := fields[target]
		if !ok {
			return false
		}
		return model.FormatValue(v) == id
	}
}

type row struct {
	record model.Record
	fields map[string]any
}

// Query runs the list pipeline over records held in collection order:
// match, then sort, then paginate. Total counts the matches before
// pagination. The returned records are the ones passed in; callers that
// hand out stored records must clone them first.
func Query(records []model.Record, match Matcher, s Sort, p Pagination) (ListResult, error) {
	rows := make([]row, 0, len(records))
	for _, r := range records {
		fields, err := model.Fields(r)
		if err != nil {
			return ListResult{}, err
		}
		if match != nil && !match(fields) {
			continue
		}
		rows = append(rows, row{record: r, fields: fields})
	}

	sortRows(rows, s)

	total := len(rows)
	start, end := pageBounds(total, p)
	data := make([]model.Record, 0, end-start)
	for _, r := range rows[start:end] {
		data = append(data, r.record)
	}
	return ListResult{Data: data, Total: total}, nil
}

func sortRows(rows []row, s Sort) {
	if s.Field == "" || (s.Order != SortAscending && s.Order != SortDescending) {
		return
	}
	desc := s.Order == SortDescending
	sort.SliceStable(rows, func(i, j int) bool {
		c := compareValues(rows[i].fields[s.Field], rows[j].fields[s.Field])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// compareValues orders nil before anything else, numbers numerically,
// false before true, and everything else by string form.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}

	if x, ok := a.(bool); ok {
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	}

	return strings.Compare(model.FormatValue(a), model.FormatValue(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	case model.ID:
		return float64(n), true
	}
	return 0, false
}

func pageBounds(total int, p Pagination) (int, int) {
	if p.PerPage <= 0 {
		return 0, total
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * p.PerPage
	if start > total {
		start = total
	}
	end := start + p.PerPage
	if end > total {
		end = total
	}
	return start, end
}
