package model

// Record is one row of a table: column id to raw value. Values are nil,
// string, float64 or time.Time once coerced.
type Record map[string]any

const (
	// FieldID is the key holding the row's primary key.
	FieldID = "id"
	// FieldBusinessID is the key holding the owning tenant.
	FieldBusinessID = "businessId"
	// FieldCreatedAt and FieldUpdatedAt are stamped by the repository.
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Reserved reports whether key is a base record field that no catalog
// column may use.
func Reserved(key string) bool {
	switch key {
	case FieldID, FieldBusinessID, FieldCreatedAt, FieldUpdatedAt:
		return true
	}
	return false
}

// ID returns the record's id or "" when absent.
func (r Record) ID() string {
	id, _ := r[FieldID].(string)
	return id
}

// BusinessID returns the owning tenant or "" when absent.
func (r Record) BusinessID() string {
	id, _ := r[FieldBusinessID].(string)
	return id
}

// Clone returns a shallow copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
