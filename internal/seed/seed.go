// Package seed creates the demo business, its employees and the catalog
// rows a fresh database needs. Every step is an upsert, so running it on
// each start is safe.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"nursery-service/internal/access"
	"nursery-service/internal/model"
	"nursery-service/internal/repository"
	"nursery-service/internal/schema"
)

const (
	DemoBusinessID   = "demo-business"
	DemoBusinessName = "Blooming Starr Nursery"
)

// Employee is a demo login.
type Employee struct {
	EmployeeID string
	PIN        string
	Name       string
	Role       access.Role
}

// DemoEmployees are the demo logins, one per role.
var DemoEmployees = []Employee{
	{EmployeeID: "1000", PIN: "1111", Name: "Olivia Owner", Role: access.RoleOwner},
	{EmployeeID: "2000", PIN: "2222", Name: "Marcus Manager", Role: access.RoleManager},
	{EmployeeID: "3000", PIN: "3333", Name: "Emma Employee", Role: access.RoleEmployee},
}

// Demo upserts the demo business and its employees.
func Demo(ctx context.Context, users repository.UserRepository, log *zap.Logger) error {
	business := &model.Business{ID: DemoBusinessID, Name: DemoBusinessName}
	if err := users.UpsertBusiness(ctx, business); err != nil {
		return fmt.Errorf("seed business: %w", err)
	}

	for _, e := range DemoEmployees {
		hash, err := bcrypt.GenerateFromPassword([]byte(e.PIN), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash pin for %s: %w", e.EmployeeID, err)
		}
		u := &model.User{
			ID:         "user-" + e.EmployeeID,
			EmployeeID: e.EmployeeID,
			PinHash:    string(hash),
			Name:       e.Name,
			Role:       string(e.Role),
			BusinessID: DemoBusinessID,
			Active:     true,
		}
		if err := users.UpsertUser(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", e.EmployeeID, err)
		}
	}

	log.Info("Seeded demo business",
		zap.String("business_id", DemoBusinessID),
		zap.Int("users", len(DemoEmployees)))
	return nil
}

// Catalog writes the builtin catalog into the metadata tables.
func Catalog(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	c := schema.Builtin()
	if err := schema.SaveCatalog(ctx, db, c); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	log.Info("Seeded catalog", zap.Int("tables", len(c.Tables)))
	return nil
}
