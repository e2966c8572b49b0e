package app

import (
	"context"

	"messenger_service/internal/chat/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

// FindByPhone mock find user by phone
func (m *MockUserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByID mock find user by id
func (m *MockUserRepository) FindByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// Create mock create user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// Update mock patch user
func (m *MockUserRepository) Update(ctx context.Context, id domain.ID, patch domain.UserPatch) (*domain.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockContactRepository mock ContactRepository
type MockContactRepository struct {
	mock.Mock
}

// ListByOwner mock list contacts
func (m *MockContactRepository) ListByOwner(ctx context.Context, ownerID domain.ID) ([]domain.Contact, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Contact), args.Error(1)
	}
	return nil, args.Error(1)
}

// Create mock create contact
func (m *MockContactRepository) Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	args := m.Called(ctx, contact)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Contact), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockGroupRepository mock GroupRepository
type MockGroupRepository struct {
	mock.Mock
}

// List mock list groups
func (m *MockGroupRepository) List(ctx context.Context) ([]domain.Group, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

// Create mock create group
func (m *MockGroupRepository) Create(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	args := m.Called(ctx, group)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSessionStore mock SessionStore
type MockSessionStore struct {
	mock.Mock
}

// Load mock load session
func (m *MockSessionStore) Load(ctx context.Context) (*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// Save mock save session
func (m *MockSessionStore) Save(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// Clear mock clear session
func (m *MockSessionStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
