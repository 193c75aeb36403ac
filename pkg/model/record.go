package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a record within its collection.
//
// IDs decode from both JSON numbers and numeric strings, so route
// parameters and form values normalize to the same type as stored ids.
type ID int64

// ParseID parses a decimal record id.
func ParseID(s string) (ID, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return ID(i), nil
}

// ParseIDs parses every element of ss, failing on the first malformed id.
func ParseIDs(ss []string) ([]ID, error) {
	ids := make([]ID, 0, len(ss))
	for _, s := range ss {
		id, err := ParseID(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// UnmarshalJSON accepts a number, a numeric string or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}

	var i int64
	if err := json.Unmarshal(data, &i); err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*id = ID(i)
	return nil
}

// Record is implemented by every stored record kind.
type Record interface {
	// Resource returns the collection the record belongs to
	Resource() Resource

	// RecordID returns the store-assigned id
	RecordID() ID

	// SetRecordID replaces the store-assigned id
	SetRecordID(id ID)

	// Clone returns an independent copy of the record
	Clone() Record
}

// Patch is a partial record keyed by JSON field name.
type Patch map[string]any

// Keys returns the field names carried by the patch.
func (p Patch) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	return keys
}

// patchExpander is implemented by kinds that accept derived fields in a patch.
type patchExpander interface {
	expandPatch(patch Patch) (Patch, error)
}

// Fields returns the record's fields keyed by JSON name. Numbers are
// returned as int64 when integral and float64 otherwise.
func Fields(r Record) (map[string]any, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}

	for k, v := range fields {
		if n, ok := v.(json.Number); ok {
			fields[k] = normalizeNumber(n)
		}
	}
	return fields, nil
}

func normalizeNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// Merge returns a copy of r with patch applied as a shallow merge.
//
// An id in the patch is accepted only when it matches the record's id.
// Unknown fields and values of the wrong type are rejected.
func Merge(r Record, patch Patch) (Record, error) {
	if expander, ok := r.(patchExpander); ok {
		expanded, err := expander.expandPatch(patch)
		if err != nil {
			return nil, err
		}
		patch = expanded
	}

	fields, err := Fields(r)
	if err != nil {
		return nil, err
	}

	for k, v := range patch {
		if k == "id" {
			if v == nil || FormatValue(v) == r.RecordID().String() {
				continue
			}
			return nil, FieldErrors{{Field: "id", Message: "cannot be changed"}}
		}
		fields[k] = v
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	merged := New(r.Resource())
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(merged); err != nil {
		return nil, decodeError(err)
	}
	merged.SetRecordID(r.RecordID())
	return merged, nil
}

// FromPatch builds a new record of the resource's kind from patch.
func FromPatch(resource Resource, patch Patch) (Record, error) {
	r := New(resource)
	if r == nil {
		return nil, fmt.Errorf("unknown resource %s", resource)
	}
	return Merge(r, withoutID(patch))
}

func withoutID(patch Patch) Patch {
	if _, ok := patch["id"]; !ok {
		return patch
	}
	out := make(Patch, len(patch))
	for k, v := range patch {
		if k != "id" {
			out[k] = v
		}
	}
	return out
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return FieldErrors{{Field: typeErr.Field, Message: fmt.Sprintf("must be of type %s", typeErr.Type)}}
	}

	msg := err.Error()
	if strings.HasPrefix(msg, "json: unknown field ") {
		field := strings.Trim(strings.TrimPrefix(msg, "json: unknown field "), `"`)
		return FieldErrors{{Field: field, Message: "is not a known field"}}
	}
	return FieldErrors{{Message: msg}}
}

// FormatValue returns the string form of a field value used for text search
// and reference matching. Nil formats as the empty string.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case ID:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

// View returns the fields shown to API clients: the stored fields plus
// derived ones such as an organization's jsonConfig.
func View(r Record) (map[string]any, error) {
	fields, err := Fields(r)
	if err != nil {
		return nil, err
	}
	if org, ok := r.(*Organization); ok {
		config, err := org.JSONConfig()
		if err != nil {
			return nil, err
		}
		fields["jsonConfig"] = config
	}
	return fields, nil
}
