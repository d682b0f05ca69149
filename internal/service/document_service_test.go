package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gdocs/internal/domain"
	"gdocs/internal/port"
	"gdocs/internal/service"
	"gdocs/mocks"
)

const mib = int64(1 << 20)

type docFixture struct {
	docs    *mocks.MockDocumentRepo
	cats    *mocks.MockCategoryRepo
	storage *mocks.MockObjectStorage
	audit   *mocks.MockAuditService
	feed    *mocks.MockNotificationService
	svc     service.DocumentService
}

func newDocFixture(withStorage bool) *docFixture {
	f := &docFixture{
		docs:    new(mocks.MockDocumentRepo),
		cats:    new(mocks.MockCategoryRepo),
		storage: new(mocks.MockObjectStorage),
		audit:   new(mocks.MockAuditService),
		feed:    new(mocks.MockNotificationService),
	}
	var storage port.ObjectStorage
	if withStorage {
		storage = f.storage
	}
	f.svc = service.NewDocumentService(f.docs, f.cats, storage,
		service.UploadLimits{Form: 2 << 30, Bulk: 10 * mib}, f.audit, f.feed, nil)
	return f
}

func rootNode(id, name string) *domain.CategoryNode {
	return &domain.CategoryNode{ID: id, Name: name}
}

func childNode(id, name, parent string) *domain.CategoryNode {
	return &domain.CategoryNode{ID: id, Name: name, ParentID: strPtr(parent)}
}

func pdfInput(size int64, p domain.UploadPath) service.CreateDocumentInput {
	return service.CreateDocumentInput{
		Name:       "Lease",
		Date:       "2025-02-01",
		CategoryID: "cat-legal",
		FileURL:    "https://files.example/lease.pdf",
		FileType:   domain.MediaTypePDF,
		FileSize:   size,
		Path:       p,
	}
}

func TestDocumentService_Create_Success(t *testing.T) {
	f := newDocFixture(false)
	sess := userSession(domain.UserPermissions{Documents: domain.CRUDPermissions{Create: true}})

	f.cats.On("GetByID", mock.Anything, "cat-legal").Return(rootNode("cat-legal", "legal"), nil)
	f.docs.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)
	expectNotify(f.feed, domain.NotificationDocument, "user-1")
	expectInfo(f.audit, "add_document")

	doc, err := f.svc.Create(context.Background(), sess, pdfInput(mib, domain.UploadPathForm))

	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "user-1", doc.UserID)
	assert.Nil(t, doc.SubcategoryID)
	assert.False(t, doc.UploadDate.IsZero())
	f.docs.AssertExpectations(t)
	f.feed.AssertExpectations(t)
	f.audit.AssertExpectations(t)
}

func TestDocumentService_Create_ForbiddenPersistsNothing(t *testing.T) {
	f := newDocFixture(false)
	sess := userSession(domain.DefaultPermissions())

	doc, err := f.svc.Create(context.Background(), sess, pdfInput(mib, domain.UploadPathForm))

	assert.Nil(t, doc)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	f.docs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.cats.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	f.audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.feed.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentService_Create_SizeLimitDependsOnPath(t *testing.T) {
	f := newDocFixture(false)
	sess := adminSession()

	_, err := f.svc.Create(context.Background(), sess, pdfInput(11*mib, domain.UploadPathBulk))
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	assert.ErrorIs(t, err, domain.ErrValidation)
	f.docs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	f.cats.On("GetByID", mock.Anything, "cat-legal").Return(rootNode("cat-legal", "legal"), nil)
	f.docs.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)
	expectNotify(f.feed, domain.NotificationDocument, "admin-1")
	expectInfo(f.audit, "add_document")

	doc, err := f.svc.Create(context.Background(), sess, pdfInput(11*mib, domain.UploadPathForm))
	require.NoError(t, err)
	assert.Equal(t, 11*mib, doc.FileSize)
}

func TestDocumentService_Create_RejectsUnsupportedType(t *testing.T) {
	f := newDocFixture(false)
	in := pdfInput(10, domain.UploadPathForm)
	in.FileType = "application/msword"

	_, err := f.svc.Create(context.Background(), adminSession(), in)

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestDocumentService_Create_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*service.CreateDocumentInput)
		field string
	}{
		{"missing name", func(in *service.CreateDocumentInput) { in.Name = "" }, "name"},
		{"bad date", func(in *service.CreateDocumentInput) { in.Date = "01/02/2025" }, "date"},
		{"missing category", func(in *service.CreateDocumentInput) { in.CategoryID = "" }, "category_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDocFixture(false)
			in := pdfInput(10, domain.UploadPathForm)
			tt.edit(&in)

			_, err := f.svc.Create(context.Background(), adminSession(), in)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			f.docs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestDocumentService_Create_UnknownCategory(t *testing.T) {
	f := newDocFixture(false)
	f.cats.On("GetByID", mock.Anything, "cat-legal").Return(nil, domain.ErrNotFound)

	_, err := f.svc.Create(context.Background(), adminSession(), pdfInput(10, domain.UploadPathForm))

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "category_id", ve.Field)
}

func TestDocumentService_Create_SubcategoryMustBelongToCategory(t *testing.T) {
	f := newDocFixture(false)
	in := pdfInput(10, domain.UploadPathForm)
	in.SubcategoryID = "sub-x"

	f.cats.On("GetByID", mock.Anything, "cat-legal").Return(rootNode("cat-legal", "legal"), nil)
	f.cats.On("GetByID", mock.Anything, "sub-x").Return(childNode("sub-x", "invoices", "cat-finance"), nil)

	_, err := f.svc.Create(context.Background(), adminSession(), in)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "subcategory_id", ve.Field)
}

func TestDocumentService_Create_GatewayFailure(t *testing.T) {
	f := newDocFixture(false)
	f.cats.On("GetByID", mock.Anything, "cat-legal").Return(rootNode("cat-legal", "legal"), nil)
	f.docs.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset by peer"))
	expectError(f.audit, "add_document").Once()

	doc, err := f.svc.Create(context.Background(), adminSession(), pdfInput(10, domain.UploadPathForm))

	assert.Nil(t, doc)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.NotContains(t, perr.Error(), "connection reset")
	f.audit.AssertExpectations(t)
	f.feed.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentService_Create_SideEffectFailuresAreSwallowed(t *testing.T) {
	f := newDocFixture(false)
	f.cats.On("GetByID", mock.Anything, "cat-legal").Return(rootNode("cat-legal", "legal"), nil)
	f.docs.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.feed.On("Notify", mock.Anything, mock.Anything, domain.NotificationDocument, mock.Anything, mock.Anything, "admin-1").
		Return(nil, errors.New("feed down"))
	expectError(f.audit, "notification_failed").Once()
	expectInfo(f.audit, "add_document").Once()

	doc, err := f.svc.Create(context.Background(), adminSession(), pdfInput(10, domain.UploadPathForm))

	require.NoError(t, err)
	assert.NotNil(t, doc)
	f.audit.AssertExpectations(t)
}

func TestDocumentService_Upload_StorageDisabled(t *testing.T) {
	f := newDocFixture(false)

	_, err := f.svc.Upload(context.Background(), adminSession(), service.UploadDocumentInput{
		CategoryID: "cat-legal",
		File:       service.FileUpload{Filename: "a.pdf", Size: 4, Content: strings.NewReader("%PDF")},
	})

	assert.ErrorIs(t, err, domain.ErrStorageDisabled)
}

func TestDocumentService_Upload_Success(t *testing.T) {
	f := newDocFixture(true)
	content := "%PDF-1.7\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n"

	f.cats.On("GetByID", mock.Anything, "cat-legal").Return(rootNode("cat-legal", "legal"), nil)
	f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return strings.HasPrefix(in.Key, "documents/") &&
			strings.HasSuffix(in.Key, "/signed_lease.pdf") &&
			in.ContentType == "application/pdf"
	})).Return(&port.UploadOutput{Location: "https://bucket.example/documents/x/signed_lease.pdf"}, nil)
	f.docs.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)
	expectNotify(f.feed, domain.NotificationDocument, "admin-1")
	expectInfo(f.audit, "upload_document")

	doc, err := f.svc.Upload(context.Background(), adminSession(), service.UploadDocumentInput{
		CategoryID: "cat-legal",
		File:       service.FileUpload{Filename: "signed lease.pdf", Size: int64(len(content)), Content: strings.NewReader(content)},
	})

	require.NoError(t, err)
	assert.Equal(t, "signed lease", doc.Name)
	assert.Equal(t, domain.MediaTypePDF, doc.FileType)
	assert.Equal(t, "https://bucket.example/documents/x/signed_lease.pdf", doc.FileURL)
	assert.Len(t, doc.Date, len("2006-01-02"))
	f.storage.AssertExpectations(t)
}

func TestDocumentService_Upload_ContentMismatch(t *testing.T) {
	f := newDocFixture(true)

	_, err := f.svc.Upload(context.Background(), adminSession(), service.UploadDocumentInput{
		CategoryID: "cat-legal",
		File:       service.FileUpload{Filename: "photo.png", Size: 9, Content: strings.NewReader("plain text")},
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestDocumentService_Upload_TooLargeNeverReachesStorage(t *testing.T) {
	f := newDocFixture(true)
	f.cats.On("List", mock.Anything).Return([]domain.CategoryNode{*rootNode("cat-fin", "financial")}, nil)

	results, err := f.svc.BulkUpload(context.Background(), adminSession(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = f.svc.BulkUpload(context.Background(), adminSession(), []service.FileUpload{
		{Filename: "facture-mars.pdf", Size: 11 * mib, Content: strings.NewReader("%PDF-1.4\n")},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, domain.ErrFileTooLarge)
	assert.NotEmpty(t, results[0].Error)
	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestDocumentService_BulkUpload_DetectsCategory(t *testing.T) {
	f := newDocFixture(true)
	f.cats.On("List", mock.Anything).Return([]domain.CategoryNode{
		*rootNode("cat-fin", "financial"),
		*rootNode("cat-other", "other"),
	}, nil)
	f.cats.On("GetByID", mock.Anything, "cat-fin").Return(rootNode("cat-fin", "financial"), nil)
	f.cats.On("GetByID", mock.Anything, "cat-other").Return(rootNode("cat-other", "other"), nil)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{Location: "https://bucket.example/x"}, nil)
	f.docs.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)
	expectNotify(f.feed, domain.NotificationDocument, "admin-1")
	expectInfo(f.audit, "bulk_upload_document")

	results, err := f.svc.BulkUpload(context.Background(), adminSession(), []service.FileUpload{
		{Filename: "Facture_2025.pdf", Size: 9, Content: strings.NewReader("%PDF-1.4\n")},
		{Filename: "beach.png", Size: 8, Content: bytes.NewReader([]byte("\x89PNG\r\n\x1a\n"))},
		{Filename: "notes.txt", Size: 5, Content: strings.NewReader("hello")},
	})

	require.NoError(t, err)
	require.Len(t, results, 3)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "cat-fin", results[0].Document.CategoryID)
	require.NoError(t, results[1].Err)
	assert.Equal(t, "cat-other", results[1].Document.CategoryID)
	assert.Equal(t, domain.MediaTypePNG, results[1].Document.FileType)
	assert.ErrorIs(t, results[2].Err, domain.ErrUnsupportedFileType)
	f.storage.AssertNumberOfCalls(t, "Upload", 2)
}

func TestDocumentService_Import(t *testing.T) {
	f := newDocFixture(false)
	f.cats.On("List", mock.Anything).Return([]domain.CategoryNode{
		*rootNode("cat-legal", "legal"),
		*childNode("sub-contracts", "contracts", "cat-legal"),
	}, nil)
	f.cats.On("GetByID", mock.Anything, "cat-legal").Return(rootNode("cat-legal", "legal"), nil)
	f.cats.On("GetByID", mock.Anything, "sub-contracts").Return(childNode("sub-contracts", "contracts", "cat-legal"), nil)
	f.docs.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)
	expectNotify(f.feed, domain.NotificationDocument, "admin-1")
	expectInfo(f.audit, "import_document")

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]interface{}{
		{"name", "date", "category", "subcategory", "file_url", "file_type", "file_size"},
		{"Lease", "2025-01-02", "Legal", "Contracts", "https://files.example/lease.pdf", "pdf", 2048},
		{"Huge scan", "2025-01-03", "legal", "", "https://files.example/scan.png", "png", 11 * mib},
		{"Lost", "2025-01-04", "travel", "", "https://files.example/t.pdf", "pdf", 1},
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, wb.SetSheetRow(sheet, cell, &rows[i]))
	}
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)

	results, err := f.svc.Import(context.Background(), adminSession(), buf)

	require.NoError(t, err)
	require.Len(t, results, 3)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "sub-contracts", *results[0].Document.SubcategoryID)
	assert.ErrorIs(t, results[1].Err, domain.ErrFileTooLarge)
	assert.ErrorIs(t, results[2].Err, domain.ErrValidation)
	assert.Equal(t, "row 4", results[2].Source)
	f.docs.AssertNumberOfCalls(t, "Create", 1)
}

func TestDocumentService_Import_BadWorkbook(t *testing.T) {
	f := newDocFixture(false)

	_, err := f.svc.Import(context.Background(), adminSession(), strings.NewReader("not a workbook"))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDocumentService_Replace(t *testing.T) {
	f := newDocFixture(false)
	sess := userSession(domain.UserPermissions{Documents: domain.CRUDPermissions{Edit: true}})

	f.cats.On("GetByID", mock.Anything, "cat-legal").Return(rootNode("cat-legal", "legal"), nil)
	f.docs.On("GetByID", mock.Anything, "doc-old").Return(&domain.Document{ID: "doc-old", Name: "Lease v1"}, nil)
	f.docs.On("Delete", mock.Anything, "doc-old").Return(nil)
	f.docs.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)
	expectNotify(f.feed, domain.NotificationDocument, "user-1")
	expectInfo(f.audit, "replace_document")

	doc, err := f.svc.Replace(context.Background(), sess, "doc-old", pdfInput(mib, domain.UploadPathBulk))

	require.NoError(t, err)
	assert.NotEqual(t, "doc-old", doc.ID)
	f.docs.AssertExpectations(t)
}

func TestDocumentService_Replace_RequiresEdit(t *testing.T) {
	f := newDocFixture(false)
	sess := userSession(domain.UserPermissions{Documents: domain.CRUDPermissions{Create: true, Delete: true}})

	_, err := f.svc.Replace(context.Background(), sess, "doc-old", pdfInput(mib, domain.UploadPathForm))

	assert.ErrorIs(t, err, domain.ErrForbidden)
	f.docs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDocumentService_Delete(t *testing.T) {
	f := newDocFixture(false)
	f.docs.On("GetByID", mock.Anything, "doc-1").Return(&domain.Document{ID: "doc-1", Name: "Lease"}, nil)
	f.docs.On("Delete", mock.Anything, "doc-1").Return(nil)
	expectNotify(f.feed, domain.NotificationDocument, "admin-1")
	expectInfo(f.audit, "delete_document")

	err := f.svc.Delete(context.Background(), adminSession(), "doc-1")

	assert.NoError(t, err)
	f.docs.AssertExpectations(t)
}

func TestDocumentService_Delete_NotFoundIsNotLogged(t *testing.T) {
	f := newDocFixture(false)
	f.docs.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	err := f.svc.Delete(context.Background(), adminSession(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentService_List(t *testing.T) {
	f := newDocFixture(false)
	f.docs.On("List", mock.Anything, domain.DocumentFilter{}).Return([]domain.Document{{ID: "d1"}, {ID: "d2"}}, nil)

	docs, err := f.svc.List(context.Background(), userSession(domain.DefaultPermissions()), service.ListDocumentsInput{})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	_, err = f.svc.List(context.Background(), userSession(domain.UserPermissions{}), service.ListDocumentsInput{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDocumentService_List_PassesNormalizedFilter(t *testing.T) {
	f := newDocFixture(false)
	f.docs.On("List", mock.Anything, domain.DocumentFilter{
		Query: "facture", Date: "2024-05-01", CategoryID: "cat-fin", FileType: "pdf", Offset: 20, Limit: 10,
	}).Return([]domain.Document{{ID: "d1"}}, nil)

	docs, err := f.svc.List(context.Background(), userSession(domain.DefaultPermissions()), service.ListDocumentsInput{
		Query: "  facture ", Date: "2024-05-01", CategoryID: "cat-fin", FileType: " PDF", Offset: 20, Limit: 10,
	})

	require.NoError(t, err)
	assert.Len(t, docs, 1)
	f.docs.AssertExpectations(t)
}

func TestDocumentService_List_RejectsBadFilter(t *testing.T) {
	f := newDocFixture(false)

	_, err := f.svc.List(context.Background(), adminSession(), service.ListDocumentsInput{Date: "01/05/2024"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "date", ve.Field)

	_, err = f.svc.List(context.Background(), adminSession(), service.ListDocumentsInput{Limit: 500})
	assert.ErrorIs(t, err, domain.ErrValidation)

	f.docs.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}
