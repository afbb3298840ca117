package repository

import (
	"context"

	"nursery-service/internal/model"
	"nursery-service/internal/query"
)

// Table names a record table and the column ids it stores. Record keys
// are column ids; the repository maps them to database column names.
type Table struct {
	Name    string
	Columns []string
}

// RecordRepository persists records. Every method is scoped to a tenant:
// a row whose business id differs from tenantID is never read, changed
// or removed, whatever its id.
type RecordRepository interface {
	// Create inserts rec. rec must carry its id and business id.
	Create(ctx context.Context, t Table, rec model.Record) error

	// FindByID returns one record or ErrRecordNotFound.
	FindByID(ctx context.Context, t Table, tenantID, id string) (model.Record, error)

	// FindMany returns the records matching f.
	FindMany(ctx context.Context, t Table, tenantID string, f query.Filter) ([]model.Record, error)

	// Update writes changes to an existing record or returns ErrRecordNotFound.
	Update(ctx context.Context, t Table, tenantID, id string, changes model.Record) error

	// Delete removes a record or returns ErrRecordNotFound.
	Delete(ctx context.Context, t Table, tenantID, id string) error

	// Distinct returns the sorted non-empty values stored in column.
	Distinct(ctx context.Context, t Table, tenantID, column string) ([]string, error)
}

// UserRepository looks up and stores employees and their businesses.
type UserRepository interface {
	GetByEmployeeID(ctx context.Context, employeeID string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetBusiness(ctx context.Context, id string) (*model.Business, error)
	UpsertBusiness(ctx context.Context, b *model.Business) error
	UpsertUser(ctx context.Context, u *model.User) error
}
