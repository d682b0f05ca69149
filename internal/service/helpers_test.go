package service_test

import (
	"github.com/stretchr/testify/mock"

	"gdocs/internal/domain"
	"gdocs/mocks"
)

func adminSession() *domain.Session {
	return domain.NewSession(&domain.User{
		ID:       "admin-1",
		Username: "admin",
		Role:     domain.RoleAdmin,
	}, domain.DefaultNotificationSettings("admin-1"))
}

func userSession(perms domain.UserPermissions) *domain.Session {
	return domain.NewSession(&domain.User{
		ID:          "user-1",
		Username:    "alice",
		Role:        domain.RoleUser,
		Permissions: perms,
	}, domain.DefaultNotificationSettings("user-1"))
}

func strPtr(s string) *string { return &s }

// expectInfo registers a successful info audit entry for action.
func expectInfo(audit *mocks.MockAuditService, action string) *mock.Call {
	return audit.On("Record", mock.Anything, domain.LogInfo, action, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.LogEntry{}, nil)
}

// expectError registers a successful error audit entry for action.
func expectError(audit *mocks.MockAuditService, action string) *mock.Call {
	return audit.On("Record", mock.Anything, domain.LogError, action, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.LogEntry{}, nil)
}

// expectNotify registers a successful notification of type t.
func expectNotify(feed *mocks.MockNotificationService, t domain.NotificationType, target string) *mock.Call {
	return feed.On("Notify", mock.Anything, mock.Anything, t, mock.Anything, mock.Anything, target).
		Return(&domain.Notification{ID: "n-1"}, nil)
}
