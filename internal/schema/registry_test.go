package schema

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func testCatalog() Catalog {
	return Catalog{
		Tables: []Table{
			{ID: "t1", Name: "Pricing", Slug: "pricing", Position: 2},
			{ID: "t2", Name: "Sales", Slug: "sales", Position: 1, DateColumn: "saleDate"},
			{ID: "t3", Name: "Old", Slug: "pricing", IsDeleted: true},
		},
		Columns: []Column{
			{ID: "c3", TableID: "t1", Name: "Three", Type: TypeText, OrderIndex: 3, IsVisible: true},
			{ID: "c1", TableID: "t1", Name: "One", Type: TypeText, OrderIndex: 1, IsVisible: true},
			{ID: "c2", TableID: "t1", Name: "Two", Type: TypeText, OrderIndex: 2, IsVisible: true},
			{ID: "hidden", TableID: "t1", Name: "Hidden", Type: TypeText, OrderIndex: 4, IsRequired: true},
			{ID: "saleDate", TableID: "t2", Name: "Date", Type: TypeDate, OrderIndex: 1, IsVisible: true},
			{ID: "quantity", TableID: "t2", Name: "Quantity", Type: TypeNumber, OrderIndex: 2, IsVisible: true},
			{ID: "unitPrice", TableID: "t2", Name: "Unit Price", Type: TypeCurrency, OrderIndex: 3, IsVisible: true},
			{ID: "totalPrice", TableID: "t2", Name: "Total", Type: TypeCurrency, OrderIndex: 4, IsVisible: true,
				IsComputed: true, Formula: "quantity * unitPrice"},
		},
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewStaticRegistry(testCatalog())
	if err != nil {
		t.Fatalf("NewStaticRegistry: %v", err)
	}
	return r
}

func ids(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.ID
	}
	return out
}

func TestColumnsForTableOrdering(t *testing.T) {
	r := newTestRegistry(t)
	got := ids(r.ColumnsForTable("t1"))
	if want := []string{"c1", "c2", "c3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ColumnsForTable = %v, want %v", got, want)
	}
}

func TestColumnsOrderTiesBrokenByID(t *testing.T) {
	cols := []Column{{ID: "b", OrderIndex: 1}, {ID: "a", OrderIndex: 1}, {ID: "c", OrderIndex: 0}}
	SortColumns(cols)
	if got, want := ids(cols), []string{"c", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("SortColumns = %v, want %v", got, want)
	}
}

func TestColumnsForTableIdempotent(t *testing.T) {
	r := newTestRegistry(t)
	first := r.ColumnsForTable("t1")
	second := r.ColumnsForTable("t1")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("ColumnsForTable not idempotent: %v vs %v", first, second)
	}
}

func TestColumnsForUnknownTable(t *testing.T) {
	r := newTestRegistry(t)
	if cols := r.ColumnsForTable("missing"); len(cols) != 0 {
		t.Fatalf("expected no columns, got %v", cols)
	}
}

func TestDisplayAndEditColumnsAreOrthogonal(t *testing.T) {
	r := newTestRegistry(t)
	if got, want := ids(r.ColumnsForEdit("t1")), []string{"c1", "c2", "c3", "hidden"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ColumnsForEdit(t1) = %v, want %v", got, want)
	}
	if got, want := ids(r.ColumnsForDisplay("t2")), []string{"saleDate", "quantity", "unitPrice", "totalPrice"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ColumnsForDisplay(t2) = %v, want %v", got, want)
	}
	if got, want := ids(r.ColumnsForEdit("t2")), []string{"saleDate", "quantity", "unitPrice"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ColumnsForEdit(t2) = %v, want %v", got, want)
	}
	if got := len(r.AllColumnsForTable("t1")); got != 4 {
		t.Errorf("AllColumnsForTable(t1) has %d columns, want 4", got)
	}
}

func TestTableBySlug(t *testing.T) {
	r := newTestRegistry(t)
	tbl, ok := r.TableBySlug("pricing")
	if !ok || tbl.ID != "t1" {
		t.Fatalf("TableBySlug(pricing) = %+v, %v; want live table t1", tbl, ok)
	}
	if tbl, ok := r.TableBySlug("nonexistent-slug"); ok || tbl != (Table{}) {
		t.Fatalf("TableBySlug(nonexistent-slug) = %+v, %v; want zero, false", tbl, ok)
	}
	if _, ok := r.TableByID("t3"); ok {
		t.Fatal("deleted table must not be returned")
	}
}

func TestListTablesOrder(t *testing.T) {
	r := newTestRegistry(t)
	var slugs []string
	for _, tbl := range r.ListTables() {
		slugs = append(slugs, tbl.Slug)
	}
	if want := []string{"sales", "pricing"}; !reflect.DeepEqual(slugs, want) {
		t.Fatalf("ListTables = %v, want %v", slugs, want)
	}
}

func TestFormulaCompiled(t *testing.T) {
	r := newTestRegistry(t)
	e, ok := r.Formula("t2", "totalPrice")
	if !ok {
		t.Fatal("expected compiled formula for totalPrice")
	}
	if got, want := e.Refs(), []string{"quantity", "unitPrice"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Refs = %v, want %v", got, want)
	}
}

func TestInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Catalog)
	}{
		{"duplicate slug", func(c *Catalog) { c.Tables[1].Slug = "pricing" }},
		{"bad slug", func(c *Catalog) { c.Tables[0].Slug = "Pricing List" }},
		{"unknown type", func(c *Catalog) { c.Columns[0].Type = "money" }},
		{"orphan column", func(c *Catalog) { c.Columns[0].TableID = "nope" }},
		{"duplicate column", func(c *Catalog) { c.Columns[1].ID = "c3" }},
		{"date column not a date", func(c *Catalog) { c.Tables[1].DateColumn = "quantity" }},
		{"formula syntax", func(c *Catalog) { c.Columns[7].Formula = "quantity *" }},
		{"formula unknown ref", func(c *Catalog) { c.Columns[7].Formula = "quantity * discount" }},
		{"formula on text", func(c *Catalog) { c.Columns[7].Type = TypeText }},
		{"tenant key as column", func(c *Catalog) { c.Columns[0].ID = "businessId" }},
		{"id as column", func(c *Catalog) { c.Columns[0].ID = "id" }},
		{"timestamp as column", func(c *Catalog) { c.Columns[0].ID = "updatedAt" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCatalog()
			tt.mutate(&c)
			if _, err := NewStaticRegistry(c); !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("err = %v, want ErrInvalidCatalog", err)
			}
		})
	}
}

func TestReloadKeepsPreviousCatalogOnFailure(t *testing.T) {
	good := testCatalog()
	fail := false
	src := SourceFunc(func(context.Context) (Catalog, error) {
		if fail {
			c := testCatalog()
			c.Columns[0].Type = "bogus"
			return c, nil
		}
		return good, nil
	})
	r, err := NewRegistry(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	fail = true
	if err := r.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}
	if _, ok := r.TableBySlug("sales"); !ok {
		t.Fatal("previous catalog lost after failed reload")
	}
}

func TestBuiltinCatalogIsValid(t *testing.T) {
	r, err := NewRegistry(context.Background(), BuiltinSource())
	if err != nil {
		t.Fatalf("builtin catalog: %v", err)
	}
	tables := r.ListTables()
	if len(tables) != 8 {
		t.Fatalf("builtin has %d tables, want 8", len(tables))
	}
	pricing, ok := r.TableBySlug("pricing")
	if !ok || !pricing.Restricted {
		t.Fatalf("pricing = %+v, %v; want restricted table", pricing, ok)
	}
	for _, id := range []string{"plantName", "finalPrice"} {
		c, ok := r.Column(pricing.ID, id)
		if !ok || !c.IsRequired {
			t.Errorf("pricing.%s = %+v, %v; want required", id, c, ok)
		}
	}
	for _, tbl := range tables {
		if tbl.DateColumn == "" {
			continue
		}
		c, ok := r.Column(tbl.ID, tbl.DateColumn)
		if !ok || !c.IsRequired {
			t.Errorf("%s date column %q must be required", tbl.Slug, tbl.DateColumn)
		}
	}
}
