package schema

import (
	"cmp"
	"context"
	"fmt"
	"regexp"
	"slices"
	"sync/atomic"

	"nursery-service/internal/formula"
	"nursery-service/internal/model"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Registry answers table and column lookups from an immutable snapshot.
// It is safe for concurrent use; Replace and Reload swap the snapshot
// atomically so readers never observe a half-loaded catalog.
type Registry struct {
	source Source
	snap   atomic.Pointer[snapshot]
}

type snapshot struct {
	tables   []Table // non-deleted, ordered by Position then ID
	bySlug   map[string]Table
	byID     map[string]Table
	columns  map[string][]Column // by table id, ordered by OrderIndex then ID
	formulas map[string]*formula.Expr
}

// NewRegistry loads the catalog from source.
func NewRegistry(ctx context.Context, source Source) (*Registry, error) {
	r := &Registry{source: source}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// NewStaticRegistry builds a registry over a fixed catalog.
func NewStaticRegistry(c Catalog) (*Registry, error) {
	return NewRegistry(context.Background(), StaticSource(c))
}

// Reload reads the source again and swaps the snapshot on success. On
// failure the previous snapshot stays in place.
func (r *Registry) Reload(ctx context.Context) error {
	c, err := r.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	return r.Replace(c)
}

// Replace validates c and makes it the current catalog.
func (r *Registry) Replace(c Catalog) error {
	s, err := build(c)
	if err != nil {
		return err
	}
	r.snap.Store(s)
	return nil
}

// Catalog returns a copy of the current catalog, deleted tables excluded.
func (r *Registry) Catalog() Catalog {
	s := r.snap.Load()
	out := Catalog{Tables: slices.Clone(s.tables)}
	for _, t := range s.tables {
		out.Columns = append(out.Columns, s.columns[t.ID]...)
	}
	return out
}

// TableBySlug returns the non-deleted table with the given slug. ok is
// false when there is none.
func (r *Registry) TableBySlug(slug string) (Table, bool) {
	t, ok := r.snap.Load().bySlug[slug]
	return t, ok
}

// TableByID returns the non-deleted table with the given id.
func (r *Registry) TableByID(id string) (Table, bool) {
	t, ok := r.snap.Load().byID[id]
	return t, ok
}

// ListTables returns every non-deleted table in navigation order.
func (r *Registry) ListTables() []Table {
	return slices.Clone(r.snap.Load().tables)
}

// ColumnsForTable returns the visible columns of a table in display order.
// It is empty when the table does not exist.
func (r *Registry) ColumnsForTable(tableID string) []Column {
	return r.filter(tableID, func(c Column) bool { return c.IsVisible })
}

// ColumnsForDisplay is ColumnsForTable: visible columns, computed or not.
func (r *Registry) ColumnsForDisplay(tableID string) []Column {
	return r.ColumnsForTable(tableID)
}

// ColumnsForEdit returns every non-computed column, visible or not.
func (r *Registry) ColumnsForEdit(tableID string) []Column {
	return r.filter(tableID, Column.Editable)
}

// AllColumnsForTable returns every column of a table, unfiltered.
func (r *Registry) AllColumnsForTable(tableID string) []Column {
	return r.filter(tableID, func(Column) bool { return true })
}

// Column returns a single column of a table.
func (r *Registry) Column(tableID, columnID string) (Column, bool) {
	for _, c := range r.snap.Load().columns[tableID] {
		if c.ID == columnID {
			return c, true
		}
	}
	return Column{}, false
}

// Formula returns the compiled formula of a computed column.
func (r *Registry) Formula(tableID, columnID string) (*formula.Expr, bool) {
	e, ok := r.snap.Load().formulas[tableID+"/"+columnID]
	return e, ok
}

func (r *Registry) filter(tableID string, keep func(Column) bool) []Column {
	cols := r.snap.Load().columns[tableID]
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// SortColumns orders columns by OrderIndex, ties broken by ID.
func SortColumns(cols []Column) {
	slices.SortStableFunc(cols, func(a, b Column) int {
		if c := cmp.Compare(a.OrderIndex, b.OrderIndex); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func build(c Catalog) (*snapshot, error) {
	s := &snapshot{
		bySlug:   make(map[string]Table),
		byID:     make(map[string]Table),
		columns:  make(map[string][]Column),
		formulas: make(map[string]*formula.Expr),
	}

	known := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if t.ID == "" {
			return nil, fmt.Errorf("%w: table %q has no id", ErrInvalidCatalog, t.Slug)
		}
		if known[t.ID] {
			return nil, fmt.Errorf("%w: duplicate table id %q", ErrInvalidCatalog, t.ID)
		}
		known[t.ID] = true
		if t.IsDeleted {
			continue
		}
		if !slugPattern.MatchString(t.Slug) {
			return nil, fmt.Errorf("%w: table %q has invalid slug %q", ErrInvalidCatalog, t.ID, t.Slug)
		}
		if _, dup := s.bySlug[t.Slug]; dup {
			return nil, fmt.Errorf("%w: duplicate slug %q", ErrInvalidCatalog, t.Slug)
		}
		s.bySlug[t.Slug] = t
		s.byID[t.ID] = t
		s.tables = append(s.tables, t)
	}
	slices.SortStableFunc(s.tables, func(a, b Table) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	seen := make(map[string]bool, len(c.Columns))
	for _, col := range c.Columns {
		if !known[col.TableID] {
			return nil, fmt.Errorf("%w: column %q references unknown table %q", ErrInvalidCatalog, col.ID, col.TableID)
		}
		if col.ID == "" {
			return nil, fmt.Errorf("%w: column without id in table %q", ErrInvalidCatalog, col.TableID)
		}
		if model.Reserved(col.ID) {
			return nil, fmt.Errorf("%w: column id %q in table %q is a reserved record field", ErrInvalidCatalog, col.ID, col.TableID)
		}
		key := col.TableID + "/" + col.ID
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate column %q in table %q", ErrInvalidCatalog, col.ID, col.TableID)
		}
		seen[key] = true
		if !col.Type.Valid() {
			return nil, fmt.Errorf("%w: column %q has unknown type %q", ErrInvalidCatalog, key, col.Type)
		}
		if _, live := s.byID[col.TableID]; !live {
			continue
		}
		s.columns[col.TableID] = append(s.columns[col.TableID], col)
	}

	for id, cols := range s.columns {
		SortColumns(cols)
		if err := checkTable(s, s.byID[id], cols); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func checkTable(s *snapshot, t Table, cols []Column) error {
	byID := make(map[string]Column, len(cols))
	for _, c := range cols {
		byID[c.ID] = c
	}
	if t.DateColumn != "" {
		if c, ok := byID[t.DateColumn]; !ok || c.Type != TypeDate {
			return fmt.Errorf("%w: table %q date column %q is not a date column", ErrInvalidCatalog, t.Slug, t.DateColumn)
		}
	}
	for _, c := range cols {
		if !c.IsComputed || c.Formula == "" {
			continue
		}
		if !c.Type.Numeric() {
			return fmt.Errorf("%w: computed column %s/%s must be numeric", ErrInvalidCatalog, t.Slug, c.ID)
		}
		e, err := formula.Parse(c.Formula)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
		for _, ref := range e.Refs() {
			dep, ok := byID[ref]
			if !ok || !dep.Type.Numeric() || dep.IsComputed {
				return fmt.Errorf("%w: formula of %s/%s references %q, which is not an editable numeric column",
					ErrInvalidCatalog, t.Slug, c.ID, ref)
			}
		}
		s.formulas[t.ID+"/"+c.ID] = e
	}
	return nil
}
