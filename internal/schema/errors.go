package schema

import "errors"

var (
	// ErrTableNotFound is returned by lookups that have to fail with an error.
	ErrTableNotFound = errors.New("table not found")
	// ErrColumnNotFound is returned when a column id is not part of a table.
	ErrColumnNotFound = errors.New("column not found")
	// ErrInvalidCatalog wraps every catalog consistency failure.
	ErrInvalidCatalog = errors.New("invalid catalog")
)
