package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nursery-service/internal/model"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByEmployeeID retrieves an active user by employee id
func (r *userRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*model.User, error) {
	var user model.User
	result := r.db.WithContext(ctx).Where("employee_id = ? AND active = ?", employeeID, true).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetByID retrieves a user by id
func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetBusiness retrieves a business by id
func (r *userRepository) GetBusiness(ctx context.Context, id string) (*model.Business, error) {
	var business model.Business
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&business)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, result.Error
	}
	return &business, nil
}

// UpsertBusiness creates a business or renames an existing one
func (r *userRepository) UpsertBusiness(ctx context.Context, b *model.Business) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(b).Error
}

// UpsertUser creates a user or refreshes one with the same employee id
func (r *userRepository) UpsertUser(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"pin_hash", "name", "email", "role", "business_id", "active", "updated_at"}),
	}).Create(u).Error
}
