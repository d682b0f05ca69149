package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"gdocs/internal/domain"
)

// MockAuditService is a mock implementation of service.AuditService.
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, severity domain.LogSeverity, action, message, actorID, details string) (*domain.LogEntry, error) {
	args := m.Called(ctx, severity, action, message, actorID, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LogEntry), args.Error(1)
}

func (m *MockAuditService) List(ctx context.Context, sess *domain.Session) ([]domain.LogEntry, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LogEntry), args.Error(1)
}

func (m *MockAuditService) Export(ctx context.Context, sess *domain.Session, w io.Writer) error {
	args := m.Called(ctx, sess, w)
	return args.Error(0)
}

func (m *MockAuditService) Clear(ctx context.Context, sess *domain.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *MockAuditService) Delete(ctx context.Context, sess *domain.Session, id string) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}
