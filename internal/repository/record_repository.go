package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"nursery-service/internal/model"
	"nursery-service/internal/query"
)

const (
	colID         = "id"
	colBusinessID = "business_id"
	colCreatedAt  = "created_at"
	colUpdatedAt  = "updated_at"
)

type recordRepository struct {
	db     *gorm.DB
	naming schema.Namer
	now    func() time.Time
}

// NewRecordRepository creates a new instance of RecordRepository
func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db, naming: db.NamingStrategy, now: time.Now}
}

// columns maps record keys to database columns for t.
type columns struct {
	toDB   map[string]string
	fromDB map[string]string
}

func (r *recordRepository) columnsOf(t Table) columns {
	c := columns{
		toDB: map[string]string{
			model.FieldID:         colID,
			model.FieldBusinessID: colBusinessID,
			query.FieldCreatedAt:  colCreatedAt,
			query.FieldUpdatedAt:  colUpdatedAt,
		},
	}
	for _, id := range t.Columns {
		c.toDB[id] = r.naming.ColumnName("", id)
	}
	c.fromDB = make(map[string]string, len(c.toDB))
	for id, name := range c.toDB {
		c.fromDB[name] = id
	}
	return c
}

func (c columns) column(id string) (string, error) {
	name, ok := c.toDB[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownColumn, id)
	}
	return name, nil
}

func (c columns) row(rec model.Record) (map[string]interface{}, error) {
	row := make(map[string]interface{}, len(rec))
	for id, v := range rec {
		name, err := c.column(id)
		if err != nil {
			return nil, err
		}
		row[name] = v
	}
	return row, nil
}

func (c columns) record(row map[string]interface{}) model.Record {
	rec := make(model.Record, len(row))
	for name, v := range row {
		id, ok := c.fromDB[name]
		if !ok {
			continue
		}
		rec[id] = normalize(v)
	}
	return rec
}

// normalize maps driver-specific scan results onto the value set records
// use: nil, string, float64 and time.Time.
func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case sql.RawBytes:
		return string(x)
	case float32:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case int:
		return float64(x)
	}
	return v
}

func (r *recordRepository) scoped(ctx context.Context, t Table, tenantID string) *gorm.DB {
	return r.db.WithContext(ctx).Table(t.Name).Where(clause.Eq{Column: clause.Column{Name: colBusinessID}, Value: tenantID})
}

// Create inserts a record
func (r *recordRepository) Create(ctx context.Context, t Table, rec model.Record) error {
	if rec.ID() == "" || rec.BusinessID() == "" {
		return errMissingKeys
	}
	row, err := r.columnsOf(t).row(rec)
	if err != nil {
		return err
	}
	now := r.now().UTC()
	row[colCreatedAt] = now
	row[colUpdatedAt] = now
	return r.db.WithContext(ctx).Table(t.Name).Create(row).Error
}

// FindByID retrieves one record of the tenant
func (r *recordRepository) FindByID(ctx context.Context, t Table, tenantID, id string) (model.Record, error) {
	row := map[string]interface{}{}
	result := r.scoped(ctx, t, tenantID).Where(clause.Eq{Column: clause.Column{Name: colID}, Value: id}).Take(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return r.columnsOf(t).record(row), nil
}

// FindMany retrieves the tenant's records matching f
func (r *recordRepository) FindMany(ctx context.Context, t Table, tenantID string, f query.Filter) ([]model.Record, error) {
	cols := r.columnsOf(t)
	tx, err := apply(r.scoped(ctx, t, tenantID), cols, f)
	if err != nil {
		return nil, err
	}
	var rows []map[string]interface{}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.Record, len(rows))
	for i, row := range rows {
		out[i] = cols.record(row)
	}
	return out, nil
}

// Update applies changes to one record of the tenant
func (r *recordRepository) Update(ctx context.Context, t Table, tenantID, id string, changes model.Record) error {
	changes = changes.Clone()
	delete(changes, model.FieldID)
	delete(changes, model.FieldBusinessID)
	row, err := r.columnsOf(t).row(changes)
	if err != nil {
		return err
	}
	// Always touching updated_at keeps RowsAffected meaningful on MySQL,
	// which only counts rows whose values changed.
	row[colUpdatedAt] = r.now().UTC()
	result := r.scoped(ctx, t, tenantID).Where(clause.Eq{Column: clause.Column{Name: colID}, Value: id}).Updates(row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Delete hard deletes one record of the tenant
func (r *recordRepository) Delete(ctx context.Context, t Table, tenantID, id string) error {
	result := r.db.WithContext(ctx).Exec("DELETE FROM ? WHERE ? = ? AND ? = ?",
		clause.Table{Name: t.Name},
		clause.Column{Name: colID}, id,
		clause.Column{Name: colBusinessID}, tenantID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Distinct returns the tenant's distinct values of one column
func (r *recordRepository) Distinct(ctx context.Context, t Table, tenantID, column string) ([]string, error) {
	name, err := r.columnsOf(t).column(column)
	if err != nil {
		return nil, err
	}
	col := clause.Column{Name: name}
	var values []string
	err = r.scoped(ctx, t, tenantID).
		Where(clause.Neq{Column: col, Value: nil}).
		Where(clause.Neq{Column: col, Value: ""}).
		Distinct().
		Order(clause.OrderByColumn{Column: col}).
		Pluck(name, &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

// apply translates f into clauses on tx.
func apply(tx *gorm.DB, cols columns, f query.Filter) (*gorm.DB, error) {
	if f.Search != "" && len(f.SearchColumns) > 0 {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		var ors []clause.Expression
		for _, id := range f.SearchColumns {
			name, err := cols.column(id)
			if err != nil {
				return nil, err
			}
			ors = append(ors, clause.Expr{SQL: "LOWER(?) LIKE ?", Vars: []interface{}{clause.Column{Name: name}, pattern}})
		}
		tx = tx.Where(clause.Or(ors...))
	}

	for _, c := range f.Conditions {
		name, err := cols.column(c.Column)
		if err != nil {
			return nil, err
		}
		col := clause.Column{Name: name}
		switch c.Op {
		case query.OpIn:
			tx = tx.Where(clause.IN{Column: col, Values: c.Values})
		case query.OpGTE:
			tx = tx.Where(clause.Gte{Column: col, Value: c.Values[0]})
		case query.OpLTE:
			tx = tx.Where(clause.Lte{Column: col, Value: c.Values[0]})
		default:
			return nil, fmt.Errorf("unsupported operator %q", c.Op)
		}
	}

	if f.DateColumn != "" && (f.DateFrom != nil || f.DateTo != nil) {
		name, err := cols.column(f.DateColumn)
		if err != nil {
			return nil, err
		}
		col := clause.Column{Name: name}
		if f.DateFrom != nil {
			tx = tx.Where(clause.Gte{Column: col, Value: *f.DateFrom})
		}
		if f.DateTo != nil {
			tx = tx.Where(clause.Lte{Column: col, Value: *f.DateTo})
		}
	}

	if f.Sort != "" {
		name, err := cols.column(f.Sort)
		if err != nil {
			return nil, err
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: name}, Desc: f.Desc})
	}
	tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: colID}})

	if f.Limit > 0 {
		tx = tx.Limit(f.Limit)
	}
	return tx, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
