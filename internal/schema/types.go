// Package schema holds the catalog of tables and columns that drives
// validation, coercion and rendering of records.
package schema

import (
	"strings"
	"time"
)

// ColumnType is the semantic type of a column. The set is closed.
type ColumnType string

const (
	TypeText     ColumnType = "text"
	TypeNumber   ColumnType = "number"
	TypeDate     ColumnType = "date"
	TypeCurrency ColumnType = "currency"
	TypePercent  ColumnType = "percent"
)

// Valid reports whether t is one of the known column types.
func (t ColumnType) Valid() bool {
	switch t {
	case TypeText, TypeNumber, TypeDate, TypeCurrency, TypePercent:
		return true
	}
	return false
}

// Numeric reports whether values of this type are numbers.
func (t ColumnType) Numeric() bool {
	return t == TypeNumber || t == TypeCurrency || t == TypePercent
}

// Table describes one logical entity collection.
type Table struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Slug      string    `json:"slug" yaml:"slug"`
	CreatedBy string    `json:"createdBy" yaml:"createdBy"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	IsDeleted bool      `json:"isDeleted" yaml:"isDeleted"`

	// Position orders tables in navigation.
	Position int `json:"position" yaml:"position"`
	// DateColumn is the column used for default sorting and date range filters.
	DateColumn string `json:"dateColumn,omitempty" yaml:"dateColumn"`
	// Restricted tables are only visible to roles with pricing access.
	Restricted bool `json:"restricted,omitempty" yaml:"restricted"`
}

// StorageName is the relational table holding the table's records.
func (t Table) StorageName() string {
	return strings.ReplaceAll(t.Slug, "-", "_")
}

// Column describes one field of a Table. ID is the record's field key.
type Column struct {
	ID         string     `json:"id" yaml:"id"`
	TableID    string     `json:"tableId" yaml:"tableId"`
	Name       string     `json:"name" yaml:"name"`
	Type       ColumnType `json:"type" yaml:"type"`
	IsComputed bool       `json:"isComputed" yaml:"isComputed"`
	Formula    string     `json:"formula,omitempty" yaml:"formula"`
	OrderIndex int        `json:"orderIndex" yaml:"orderIndex"`
	IsVisible  bool       `json:"isVisible" yaml:"isVisible"`
	IsRequired bool       `json:"isRequired" yaml:"isRequired"`
	// AllowNegative lifts the non-negative rule for numeric columns.
	AllowNegative bool   `json:"allowNegative,omitempty" yaml:"allowNegative"`
	Placeholder   string `json:"placeholder,omitempty" yaml:"placeholder"`
	DefaultValue  string `json:"defaultValue,omitempty" yaml:"defaultValue"`
}

// Editable reports whether the column accepts input.
func (c Column) Editable() bool {
	return !c.IsComputed
}

// Catalog is a complete set of table and column metadata.
type Catalog struct {
	Tables  []Table  `json:"tables" yaml:"tables"`
	Columns []Column `json:"columns" yaml:"columns"`
}
