package repository

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"nursery-service/internal/model"
	"nursery-service/internal/query"
)

// MemoryRecordRepository keeps records in process memory. It backs the
// "memory" database driver for demos and tests and applies filters with
// the same meaning as the SQL repository.
type MemoryRecordRepository struct {
	mu     sync.RWMutex
	tables map[string]map[string]model.Record
	now    func() time.Time
}

// NewMemoryRecordRepository creates an empty in-memory repository.
func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{tables: map[string]map[string]model.Record{}, now: time.Now}
}

func (m *MemoryRecordRepository) rows(t Table) map[string]model.Record {
	rows, ok := m.tables[t.Name]
	if !ok {
		rows = map[string]model.Record{}
		m.tables[t.Name] = rows
	}
	return rows
}

func known(t Table, rec model.Record) error {
	allowed := map[string]bool{model.FieldID: true, model.FieldBusinessID: true}
	for _, id := range t.Columns {
		allowed[id] = true
	}
	for k := range rec {
		if !allowed[k] {
			return ErrUnknownColumn
		}
	}
	return nil
}

// Create inserts a record
func (m *MemoryRecordRepository) Create(_ context.Context, t Table, rec model.Record) error {
	if rec.ID() == "" || rec.BusinessID() == "" {
		return errMissingKeys
	}
	if err := known(t, rec); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row := rec.Clone()
	now := m.now().UTC()
	row[query.FieldCreatedAt] = now
	row[query.FieldUpdatedAt] = now
	m.rows(t)[rec.ID()] = row
	return nil
}

// FindByID retrieves one record of the tenant
func (m *MemoryRecordRepository) FindByID(_ context.Context, t Table, tenantID, id string) (model.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.tables[t.Name][id]
	if !ok || rec.BusinessID() != tenantID {
		return nil, ErrRecordNotFound
	}
	return rec.Clone(), nil
}

// FindMany retrieves the tenant's records matching f
func (m *MemoryRecordRepository) FindMany(_ context.Context, t Table, tenantID string, f query.Filter) ([]model.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Record
	for _, rec := range m.tables[t.Name] {
		if rec.BusinessID() == tenantID && matches(rec, f) {
			out = append(out, rec.Clone())
		}
	}
	slices.SortFunc(out, func(a, b model.Record) int {
		c := compareValues(a[f.Sort], b[f.Sort])
		if f.Desc {
			c = -c
		}
		return cmp.Or(c, cmp.Compare(a.ID(), b.ID()))
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Update applies changes to one record of the tenant
func (m *MemoryRecordRepository) Update(_ context.Context, t Table, tenantID, id string, changes model.Record) error {
	if err := known(t, changes); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.tables[t.Name][id]
	if !ok || rec.BusinessID() != tenantID {
		return ErrRecordNotFound
	}
	for k, v := range changes {
		if k == model.FieldID || k == model.FieldBusinessID {
			continue
		}
		rec[k] = v
	}
	rec[query.FieldUpdatedAt] = m.now().UTC()
	return nil
}

// Delete removes one record of the tenant
func (m *MemoryRecordRepository) Delete(_ context.Context, t Table, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tables[t.Name]
	rec, ok := rows[id]
	if !ok || rec.BusinessID() != tenantID {
		return ErrRecordNotFound
	}
	delete(rows, id)
	return nil
}

// Distinct returns the tenant's distinct values of one column
func (m *MemoryRecordRepository) Distinct(_ context.Context, t Table, tenantID, column string) ([]string, error) {
	if !slices.Contains(t.Columns, column) {
		return nil, ErrUnknownColumn
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[string]bool{}
	out := []string{}
	for _, rec := range m.tables[t.Name] {
		if rec.BusinessID() != tenantID {
			continue
		}
		if v, ok := rec[column].(string); ok && v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out, nil
}

func matches(rec model.Record, f query.Filter) bool {
	if f.Search != "" && len(f.SearchColumns) > 0 {
		needle := strings.ToLower(f.Search)
		found := false
		for _, id := range f.SearchColumns {
			if s, ok := rec[id].(string); ok && strings.Contains(strings.ToLower(s), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, c := range f.Conditions {
		v := rec[c.Column]
		switch c.Op {
		case query.OpIn:
			if !slices.Contains(c.Values, v) {
				return false
			}
		case query.OpGTE:
			if v == nil || compareValues(v, c.Values[0]) < 0 {
				return false
			}
		case query.OpLTE:
			if v == nil || compareValues(v, c.Values[0]) > 0 {
				return false
			}
		}
	}
	if f.DateColumn != "" && (f.DateFrom != nil || f.DateTo != nil) {
		d, ok := rec[f.DateColumn].(time.Time)
		if !ok {
			return false
		}
		if f.DateFrom != nil && d.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && d.After(*f.DateTo) {
			return false
		}
	}
	return true
}

// compareValues orders nil first, then numbers, times and strings by value.
func compareValues(a, b any) int {
	switch x := a.(type) {
	case nil:
		if b == nil {
			return 0
		}
		return -1
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	}
	if b == nil {
		return 1
	}
	return 0
}
