package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gdocs/internal/domain"
)

// MockCategoryService is a mock implementation of service.CategoryService.
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) AddCategory(ctx context.Context, sess *domain.Session, name string) (*domain.Category, error) {
	args := m.Called(ctx, sess, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryService) AddSubcategory(ctx context.Context, sess *domain.Session, categoryID, name string) (*domain.Subcategory, error) {
	args := m.Called(ctx, sess, categoryID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subcategory), args.Error(1)
}

func (m *MockCategoryService) DeleteCategory(ctx context.Context, sess *domain.Session, id string) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

func (m *MockCategoryService) DeleteSubcategory(ctx context.Context, sess *domain.Session, id string) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

func (m *MockCategoryService) ListCategories(ctx context.Context, sess *domain.Session) ([]domain.Category, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryService) GetSubcategory(ctx context.Context, sess *domain.Session, id string) (*domain.Subcategory, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subcategory), args.Error(1)
}
