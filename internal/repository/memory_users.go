package repository

import (
	"context"
	"sync"

	"nursery-service/internal/model"
)

// MemoryUserRepository keeps businesses and users in process memory.
type MemoryUserRepository struct {
	mu         sync.RWMutex
	businesses map[string]model.Business
	users      map[string]model.User // by employee id
}

// NewMemoryUserRepository creates an empty in-memory user repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		businesses: map[string]model.Business{},
		users:      map[string]model.User{},
	}
}

// GetByEmployeeID retrieves an active user by employee id
func (m *MemoryUserRepository) GetByEmployeeID(_ context.Context, employeeID string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[employeeID]
	if !ok || !u.Active {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// GetByID retrieves a user by id
func (m *MemoryUserRepository) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// GetBusiness retrieves a business by id
func (m *MemoryUserRepository) GetBusiness(_ context.Context, id string) (*model.Business, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.businesses[id]
	if !ok {
		return nil, ErrBusinessNotFound
	}
	return &b, nil
}

// UpsertBusiness creates a business or renames an existing one
func (m *MemoryUserRepository) UpsertBusiness(_ context.Context, b *model.Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.businesses[b.ID] = *b
	return nil
}

// UpsertUser creates a user or refreshes one with the same employee id
func (m *MemoryUserRepository) UpsertUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.users[u.EmployeeID]; ok {
		u.ID = existing.ID
	}
	m.users[u.EmployeeID] = *u
	return nil
}
