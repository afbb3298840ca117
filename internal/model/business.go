package model

import "time"

// Business is the tenant: every record row belongs to exactly one business.
type Business struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is an employee that logs in with a numeric employee id and PIN.
type User struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	EmployeeID string    `json:"employee_id" gorm:"type:varchar(32);uniqueIndex;not null"`
	PinHash    string    `json:"-" gorm:"type:varchar(255);not null"`
	Name       string    `json:"name" gorm:"type:varchar(255)"`
	Email      string    `json:"email" gorm:"type:varchar(255)"`
	Role       string    `json:"role" gorm:"type:varchar(16);not null"`
	BusinessID string    `json:"business_id" gorm:"type:varchar(64);index;not null"`
	Active     bool      `json:"active" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
