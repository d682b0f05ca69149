package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gdocs/internal/domain"
	"gdocs/internal/service"
	"gdocs/mocks"
)

func TestStatsService_Get(t *testing.T) {
	repo := new(mocks.MockStatsRepo)
	svc := service.NewStatsService(repo, new(mocks.MockAuditService), nil)
	expected := &domain.Stats{TotalDocuments: 3, DocumentsByCategory: map[string]int{"legal": 3}}
	repo.On("GetStats", mock.Anything).Return(expected, nil)

	stats, err := svc.Get(context.Background(), userSession(domain.UserPermissions{Dashboard: domain.ViewPermission{View: true}}))

	require.NoError(t, err)
	assert.Equal(t, expected, stats)
}

func TestStatsService_Get_Forbidden(t *testing.T) {
	repo := new(mocks.MockStatsRepo)
	svc := service.NewStatsService(repo, new(mocks.MockAuditService), nil)

	_, err := svc.Get(context.Background(), userSession(domain.DefaultPermissions()))

	assert.ErrorIs(t, err, domain.ErrForbidden)
	repo.AssertNotCalled(t, "GetStats", mock.Anything)
}
