// Package coerce turns submitted form fields into typed record values,
// using each column's declared type.
package coerce

import (
	"strconv"
	"strings"

	"nursery-service/internal/model"
	"nursery-service/internal/schema"
	"nursery-service/internal/validation"
)

// Form is flat string-keyed input as submitted by a client.
type Form map[string]string

// Raw exposes f in the shape the validator accepts.
func (f Form) Raw() map[string]any {
	out := make(map[string]any, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Coerce converts the fields of form that name one of columns. Keys that
// match no column are dropped, computed columns are never accepted, and
// the tenant id is always taken from tenantID.
//
// The result is not guaranteed valid. A value that fails to parse becomes
// nil; the validator is the authority on rejecting it.
func Coerce(columns []schema.Column, form Form, tenantID string) model.Record {
	rec := model.Record{}
	for _, col := range columns {
		if !col.Editable() || model.Reserved(col.ID) {
			continue
		}
		raw, ok := form[col.ID]
		if !ok {
			continue
		}
		rec[col.ID] = Value(col.Type, raw)
	}
	rec[model.FieldBusinessID] = tenantID
	return rec
}

// Value converts one raw string to the Go value stored for typ: nil,
// float64, time.Time or a trimmed string.
func Value(typ schema.ColumnType, raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	switch {
	case typ.Numeric():
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return n
	case typ == schema.TypeDate:
		t, ok := validation.ParseDate(s)
		if !ok {
			return nil
		}
		return t
	default:
		return s
	}
}
