package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gdocs/internal/domain"
)

// MockLogRepo is a mock implementation of port.LogRepository.
type MockLogRepo struct {
	mock.Mock
}

func (m *MockLogRepo) Create(ctx context.Context, entry *domain.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLogRepo) List(ctx context.Context) ([]domain.LogEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LogEntry), args.Error(1)
}

func (m *MockLogRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLogRepo) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
