package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"gdocs/internal/domain"
	"gdocs/internal/service"
)

// MockDocumentService is a mock implementation of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Create(ctx context.Context, sess *domain.Session, input service.CreateDocumentInput) (*domain.Document, error) {
	args := m.Called(ctx, sess, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) Upload(ctx context.Context, sess *domain.Session, input service.UploadDocumentInput) (*domain.Document, error) {
	args := m.Called(ctx, sess, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) BulkUpload(ctx context.Context, sess *domain.Session, files []service.FileUpload) ([]service.BulkResult, error) {
	args := m.Called(ctx, sess, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.BulkResult), args.Error(1)
}

func (m *MockDocumentService) Import(ctx context.Context, sess *domain.Session, r io.Reader) ([]service.BulkResult, error) {
	args := m.Called(ctx, sess, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.BulkResult), args.Error(1)
}

func (m *MockDocumentService) Replace(ctx context.Context, sess *domain.Session, id string, input service.CreateDocumentInput) (*domain.Document, error) {
	args := m.Called(ctx, sess, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, sess *domain.Session, id string) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

func (m *MockDocumentService) List(ctx context.Context, sess *domain.Session, input service.ListDocumentsInput) ([]domain.Document, error) {
	args := m.Called(ctx, sess, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}
