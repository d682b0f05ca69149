package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gdocs/internal/domain"
	"gdocs/internal/service"
)

// MockNotificationService is a mock implementation of
// service.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, sess *domain.Session, t domain.NotificationType, title, message, target string) (*domain.Notification, error) {
	args := m.Called(ctx, sess, t, title, message, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *MockNotificationService) List(ctx context.Context, sess *domain.Session) ([]domain.Notification, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, sess *domain.Session, id string) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

func (m *MockNotificationService) ClearAll(ctx context.Context, sess *domain.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *MockNotificationService) SettingsFor(ctx context.Context, userID string) (domain.NotificationSettings, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.NotificationSettings), args.Error(1)
}

func (m *MockNotificationService) UpdateSettings(ctx context.Context, sess *domain.Session, input service.UpdateSettingsInput) (*domain.NotificationSettings, error) {
	args := m.Called(ctx, sess, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationSettings), args.Error(1)
}
