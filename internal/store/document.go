package store

import (
	"bytes"
	"encoding/json"
)

// Document is one stored record in its JSON form. Field names match the json
// tags on the structs in internal/models.
type Document map[string]any

// ID returns the record identifier.
func (d Document) ID() string {
	return d.Str("id")
}

// CreatedAt returns the insert timestamp.
func (d Document) CreatedAt() string {
	return d.Str("created_at")
}

// UpdatedAt returns the last update timestamp, empty if never updated.
func (d Document) UpdatedAt() string {
	return d.Str("updated_at")
}

// Str returns a string field, or "" when absent or of another type.
func (d Document) Str(field string) string {
	s, _ := d[field].(string)
	return s
}

// Bool returns a boolean field.
func (d Document) Bool(field string) bool {
	b, _ := d[field].(bool)
	return b
}

// Int returns a numeric field. JSON numbers decode as float64, so both forms
// are accepted.
func (d Document) Int(field string) int64 {
	switch n := d[field].(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	}
	return 0
}

// Decode unmarshals a document into a typed model.
func Decode[T any](d Document) (T, error) {
	var out T
	raw, err := json.Marshal(d)
	if err != nil {
		return out, err
	}
	return out, json.Unmarshal(raw, &out)
}

// DecodeAll unmarshals a slice of documents, skipping any that do not fit T.
func DecodeAll[T any](docs []Document) []T {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := Decode[T](d)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// ToDocument converts a struct or map to its JSON document form.
func ToDocument(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Patch converts a typed patch struct to the merge map applied by Update.
// Unset omitempty fields stay out of the patch, so only supplied fields change.
func Patch(v any) map[string]any {
	doc, err := ToDocument(v)
	if err != nil {
		return map[string]any{}
	}
	return doc
}

// equalValues compares a stored value against a criterion after JSON
// normalisation, so an int criterion matches the float64 the decoder produced.
func equalValues(a, b any) bool {
	if a == b {
		return true
	}
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(ab, bb)
}

// falsy reports whether a search criterion should be ignored.
func falsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case int:
		return x == 0
	case int64:
		return x == 0
	case float64:
		return x == 0
	}
	return false
}
