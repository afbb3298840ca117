// Package render builds the view models a UI draws: a list view with
// type-aware cell text and an edit form whose constraints mirror the
// server-side validation rules.
package render

import (
	"sort"

	"nursery-service/internal/format"
	"nursery-service/internal/model"
	"nursery-service/internal/schema"
)

// TableRef identifies the table a view belongs to.
type TableRef struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Header is one list column.
type Header struct {
	ID   string            `json:"id"`
	Name string            `json:"name"`
	Type schema.ColumnType `json:"type"`
}

// Cell is one formatted value. Value is the stored value, Text its display.
type Cell struct {
	Column string `json:"column"`
	Value  any    `json:"value"`
	Text   string `json:"text"`
}

// Row is one record. Editable gates edit and delete affordances.
type Row struct {
	ID       string `json:"id"`
	Cells    []Cell `json:"cells"`
	Editable bool   `json:"editable"`
}

// Total is the sum of one numeric column over the listed rows.
type Total struct {
	Column string  `json:"column"`
	Value  float64 `json:"value"`
	Text   string  `json:"text"`
}

// ListView is a table of records.
type ListView struct {
	Table   TableRef `json:"table"`
	Headers []Header `json:"headers"`
	Rows    []Row    `json:"rows"`
	Totals  []Total  `json:"totals,omitempty"`
	Count   int      `json:"count"`
	CanEdit bool     `json:"canEdit"`
}

// List renders recs with one header per column and one cell per column
// per record. canEdit comes from the authorization layer.
func List(f format.Formatter, t schema.Table, columns []schema.Column, recs []model.Record, totals map[string]float64, canEdit bool) ListView {
	v := ListView{
		Table:   TableRef{Slug: t.Slug, Name: t.Name},
		Headers: make([]Header, len(columns)),
		Rows:    make([]Row, len(recs)),
		Count:   len(recs),
		CanEdit: canEdit,
	}
	for i, c := range columns {
		v.Headers[i] = Header{ID: c.ID, Name: c.Name, Type: c.Type}
	}
	for i, rec := range recs {
		row := Row{ID: rec.ID(), Cells: make([]Cell, len(columns)), Editable: canEdit}
		for j, c := range columns {
			row.Cells[j] = Cell{Column: c.ID, Value: rec[c.ID], Text: f.ForDisplay(rec[c.ID], c.Type)}
		}
		v.Rows[i] = row
	}

	types := make(map[string]schema.ColumnType, len(columns))
	for _, c := range columns {
		types[c.ID] = c.Type
	}
	for id, sum := range totals {
		v.Totals = append(v.Totals, Total{Column: id, Value: sum, Text: f.ForDisplay(sum, types[id])})
	}
	sort.Slice(v.Totals, func(i, j int) bool { return v.Totals[i].Column < v.Totals[j].Column })
	return v
}

// Detail renders a single record as column id to display text.
func Detail(f format.Formatter, columns []schema.Column, rec model.Record) map[string]string {
	out := make(map[string]string, len(columns))
	for _, c := range columns {
		out[c.ID] = f.ForDisplay(rec[c.ID], c.Type)
	}
	return out
}
