package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"gdocs/internal/domain"
	"gdocs/internal/logger"
	"gdocs/internal/manifest"
	"gdocs/internal/port"
)

const dateLayout = "2006-01-02"

// UploadLimits are the per-path file size ceilings in bytes.
type UploadLimits struct {
	Form int64
	Bulk int64
}

func (l UploadLimits) max(p domain.UploadPath) int64 {
	if p == domain.UploadPathBulk {
		return l.Bulk
	}
	return l.Form
}

// CreateDocumentInput is the DTO for registering a document whose content
// already lives at FileURL.
type CreateDocumentInput struct {
	Name          string            `json:"name" validate:"required,max=255"`
	Date          string            `json:"date" validate:"required,datetime=2006-01-02"`
	CategoryID    string            `json:"category_id" validate:"required"`
	SubcategoryID string            `json:"subcategory_id"`
	FileURL       string            `json:"file_url" validate:"required"`
	FileType      domain.MediaType  `json:"file_type" validate:"required"`
	FileSize      int64             `json:"file_size" validate:"gte=0"`
	Path          domain.UploadPath `json:"-"`
}

// FileUpload is one file's content as received from a client.
type FileUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// UploadDocumentInput is the DTO for the single-item form. Name defaults to
// the file's base name and Date to today.
type UploadDocumentInput struct {
	Name          string
	Date          string
	CategoryID    string
	SubcategoryID string
	File          FileUpload
}

// ListDocumentsInput holds the optional listing filters. Query matches the
// name case-insensitively and FileType matches any part of the media type.
type ListDocumentsInput struct {
	Query      string `json:"q"`
	Date       string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	CategoryID string `json:"category_id"`
	FileType   string `json:"file_type"`
	Offset     int    `json:"offset" validate:"min=0"`
	Limit      int    `json:"limit" validate:"min=0,max=100"`
}

// BulkResult reports the outcome of one item of a batch.
type BulkResult struct {
	Source   string           `json:"source"`
	Document *domain.Document `json:"document,omitempty"`
	Error    string           `json:"error,omitempty"`
	Err      error            `json:"-"`
}

// DocumentService defines the document management contract.
type DocumentService interface {
	Create(ctx context.Context, sess *domain.Session, input CreateDocumentInput) (*domain.Document, error)
	Upload(ctx context.Context, sess *domain.Session, input UploadDocumentInput) (*domain.Document, error)
	BulkUpload(ctx context.Context, sess *domain.Session, files []FileUpload) ([]BulkResult, error)
	Import(ctx context.Context, sess *domain.Session, r io.Reader) ([]BulkResult, error)
	Replace(ctx context.Context, sess *domain.Session, id string, input CreateDocumentInput) (*domain.Document, error)
	Delete(ctx context.Context, sess *domain.Session, id string) error
	List(ctx context.Context, sess *domain.Session, input ListDocumentsInput) ([]domain.Document, error)
}

type documentService struct {
	docRepo      port.DocumentRepository
	categoryRepo port.CategoryRepository
	storage      port.ObjectStorage
	limits       UploadLimits
	log          *logger.Logger
	fx           *effects
}

// NewDocumentService creates a new DocumentService implementation. storage
// may be nil, which disables the content upload operations.
func NewDocumentService(
	docRepo port.DocumentRepository,
	categoryRepo port.CategoryRepository,
	storage port.ObjectStorage,
	limits UploadLimits,
	audit AuditService,
	feed NotificationService,
	log *logger.Logger,
) DocumentService {
	if log == nil {
		log = logger.Nop()
	}
	return &documentService{
		docRepo:      docRepo,
		categoryRepo: categoryRepo,
		storage:      storage,
		limits:       limits,
		log:          log,
		fx:           newEffects(audit, feed, log),
	}
}

func (s *documentService) Create(ctx context.Context, sess *domain.Session, input CreateDocumentInput) (*domain.Document, error) {
	if err := s.fx.authorize(sess, domain.ResourceDocuments, domain.ActionCreate, "document", "create"); err != nil {
		return nil, err
	}
	if input.Path == "" {
		input.Path = domain.UploadPathForm
	}
	if err := s.check(ctx, input); err != nil {
		return nil, s.settle(ctx, sess, "create", "add_document", err)
	}
	return s.create(ctx, sess, input, "create", "add_document")
}

// check validates the input, the media type, the size ceiling of the
// input's path and the category references.
func (s *documentService) check(ctx context.Context, input CreateDocumentInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	if !domain.AllowedMediaTypes[input.FileType] {
		return domain.ErrUnsupportedFileType
	}
	if input.FileSize > s.limits.max(input.Path) {
		return domain.ErrFileTooLarge
	}
	return s.resolveCategory(ctx, input.CategoryID, input.SubcategoryID)
}

// settle classifies a pre-write failure. Validation outcomes are counted,
// anything else came from the gateway.
func (s *documentService) settle(ctx context.Context, sess *domain.Session, op, action string, err error) error {
	if errors.Is(err, domain.ErrValidation) {
		return s.fx.invalid("document", op, err)
	}
	return s.fx.gatewayFailure(ctx, sess, "document", op, action, err)
}

// resolveCategory requires categoryID to name a root and subcategoryID, when
// set, to name one of its children.
func (s *documentService) resolveCategory(ctx context.Context, categoryID, subcategoryID string) error {
	cat, err := s.categoryRepo.GetByID(ctx, categoryID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError("category_id", "does not exist")
	}
	if err != nil {
		return err
	}
	if cat.ParentID != nil {
		return domain.NewValidationError("category_id", "must reference a top-level category")
	}
	if subcategoryID == "" {
		return nil
	}

	sub, err := s.categoryRepo.GetByID(ctx, subcategoryID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError("subcategory_id", "does not exist")
	}
	if err != nil {
		return err
	}
	if sub.ParentID == nil || *sub.ParentID != cat.ID {
		return domain.NewValidationError("subcategory_id", "does not belong to the category")
	}
	return nil
}

func (s *documentService) create(ctx context.Context, sess *domain.Session, input CreateDocumentInput, op, action string) (*domain.Document, error) {
	doc := &domain.Document{
		ID:         uuid.NewString(),
		Name:       input.Name,
		Date:       input.Date,
		CategoryID: input.CategoryID,
		FileURL:    input.FileURL,
		FileType:   input.FileType,
		FileSize:   input.FileSize,
		UploadDate: time.Now().UTC(),
		UserID:     sess.ActorID(),
	}
	if input.SubcategoryID != "" {
		sub := input.SubcategoryID
		doc.SubcategoryID = &sub
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "document", op, action, err)
	}

	s.fx.succeed(ctx, sess, "document", op, &note{
		Type:    domain.NotificationDocument,
		Title:   "New document",
		Message: fmt.Sprintf("%s was added", doc.Name),
		Target:  sess.ActorID(),
	}, audited{
		Action:  action,
		Message: fmt.Sprintf("Document %q was added", doc.Name),
		Details: doc.ID,
	})
	return doc, nil
}

// Upload stores file content and registers it on the form path. Size and
// type are checked before anything is sent to storage.
func (s *documentService) Upload(ctx context.Context, sess *domain.Session, input UploadDocumentInput) (*domain.Document, error) {
	if err := s.fx.authorize(sess, domain.ResourceDocuments, domain.ActionCreate, "document", "upload"); err != nil {
		return nil, err
	}
	return s.upload(ctx, sess, input, domain.UploadPathForm, "upload", "upload_document")
}

func (s *documentService) upload(ctx context.Context, sess *domain.Session, input UploadDocumentInput, p domain.UploadPath, op, action string) (*domain.Document, error) {
	if s.storage == nil {
		return nil, domain.ErrStorageDisabled
	}

	mt, body, err := sniff(input.File)
	if err != nil {
		return nil, s.settle(ctx, sess, op, action, err)
	}

	doc := CreateDocumentInput{
		Name:          input.Name,
		Date:          input.Date,
		CategoryID:    input.CategoryID,
		SubcategoryID: input.SubcategoryID,
		FileURL:       "pending",
		FileType:      mt,
		FileSize:      input.File.Size,
		Path:          p,
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(input.File.Filename), filepath.Ext(input.File.Filename))
	}
	if doc.Date == "" {
		doc.Date = time.Now().UTC().Format(dateLayout)
	}
	if err := s.check(ctx, doc); err != nil {
		return nil, s.settle(ctx, sess, op, action, err)
	}

	out, err := s.storage.Upload(ctx, port.UploadInput{
		Key:         path.Join("documents", uuid.NewString(), sanitizeObjectName(input.File.Filename)),
		Body:        body,
		ContentType: string(mt),
		Size:        input.File.Size,
	})
	if err != nil {
		s.log.Error().Err(err).Str("file", input.File.Filename).Msg("object storage upload failed")
		return nil, s.fx.gatewayFailure(ctx, sess, "document", op, action, err)
	}
	doc.FileURL = out.Location

	return s.create(ctx, sess, doc, op, action)
}

// sniff maps the file extension to a media type and checks it against the
// content's leading bytes. The returned reader replays the sniffed bytes.
func sniff(f FileUpload) (domain.MediaType, io.Reader, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Filename), "."))
	mt, ok := domain.AllowedExtensions[ext]
	if !ok {
		return "", nil, domain.ErrUnsupportedFileType
	}

	buf := make([]byte, 512)
	n, err := io.ReadFull(f.Content, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, fmt.Errorf("reading file header: %w", err)
	}
	if domain.MediaType(http.DetectContentType(buf[:n])) != mt {
		return "", nil, domain.ErrUnsupportedFileType
	}
	return mt, io.MultiReader(bytes.NewReader(buf[:n]), f.Content), nil
}

func sanitizeObjectName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "file"
	}
	return strings.ReplaceAll(base, " ", "_")
}

// BulkUpload stores each file on the bulk path. The category is detected
// from the filename. One failing item does not stop the batch.
func (s *documentService) BulkUpload(ctx context.Context, sess *domain.Session, files []FileUpload) ([]BulkResult, error) {
	if err := s.fx.authorize(sess, domain.ResourceDocuments, domain.ActionCreate, "document", "bulk_upload"); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, domain.ErrStorageDisabled
	}

	roots, err := s.rootsByName(ctx, sess)
	if err != nil {
		return nil, err
	}

	results := make([]BulkResult, 0, len(files))
	for _, f := range files {
		res := BulkResult{Source: f.Filename}
		name := domain.DetectCategory(f.Filename)
		catID, ok := roots[name]
		if !ok {
			res.Err = domain.NewValidationError("category", fmt.Sprintf("%q does not exist", name))
		} else {
			res.Document, res.Err = s.upload(ctx, sess, UploadDocumentInput{
				CategoryID: catID,
				File:       f,
			}, domain.UploadPathBulk, "bulk_upload", "bulk_upload_document")
		}
		if res.Err != nil {
			res.Error = res.Err.Error()
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *documentService) rootsByName(ctx context.Context, sess *domain.Session) (map[string]string, error) {
	nodes, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "category", "list", "list_categories", err)
	}
	roots := make(map[string]string)
	for _, c := range domain.BuildCategoryTree(nodes) {
		roots[c.Name] = c.ID
	}
	return roots, nil
}

// Import registers every row of a spreadsheet manifest on the bulk path.
// Categories and subcategories are referenced by name.
func (s *documentService) Import(ctx context.Context, sess *domain.Session, r io.Reader) ([]BulkResult, error) {
	if err := s.fx.authorize(sess, domain.ResourceDocuments, domain.ActionCreate, "document", "import"); err != nil {
		return nil, err
	}
	rows, err := manifest.Parse(r)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, s.fx.invalid("document", "import", err)
		}
		return nil, s.fx.invalid("document", "import", domain.NewValidationError("file", err.Error()))
	}

	nodes, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "category", "list", "list_categories", err)
	}
	tree := domain.BuildCategoryTree(nodes)

	results := make([]BulkResult, 0, len(rows))
	for _, row := range rows {
		res := BulkResult{Source: fmt.Sprintf("row %d", row.Line)}
		input, err := importInput(tree, row)
		if err == nil {
			err = s.check(ctx, input)
		}
		if err != nil {
			res.Err = s.settle(ctx, sess, "import", "import_document", err)
		} else {
			res.Document, res.Err = s.create(ctx, sess, input, "import", "import_document")
		}
		if res.Err != nil {
			res.Error = res.Err.Error()
		}
		results = append(results, res)
	}
	return results, nil
}

func importInput(tree []domain.Category, row manifest.Row) (CreateDocumentInput, error) {
	input := CreateDocumentInput{
		Name:     row.Name,
		Date:     row.Date,
		FileURL:  row.FileURL,
		FileType: row.FileType,
		FileSize: row.FileSize,
		Path:     domain.UploadPathBulk,
	}
	if input.Date == "" {
		input.Date = time.Now().UTC().Format(dateLayout)
	}

	catName, err := domain.NormalizeCategoryName(row.Category)
	if err != nil {
		return input, domain.NewValidationError("category", "must not be empty")
	}
	for _, c := range tree {
		if c.Name != catName {
			continue
		}
		input.CategoryID = c.ID
		if row.Subcategory == "" {
			return input, nil
		}
		subName := strings.ToLower(strings.TrimSpace(row.Subcategory))
		for _, sub := range c.Subcategories {
			if sub.Name == subName {
				input.SubcategoryID = sub.ID
				return input, nil
			}
		}
		return input, domain.NewValidationError("subcategory", fmt.Sprintf("%q does not exist in %s", subName, catName))
	}
	return input, domain.NewValidationError("category", fmt.Sprintf("%q does not exist", catName))
}

// Replace re-uploads a document: the old record is deleted and a new one is
// created on the form path with a new id.
func (s *documentService) Replace(ctx context.Context, sess *domain.Session, id string, input CreateDocumentInput) (*domain.Document, error) {
	if err := s.fx.authorize(sess, domain.ResourceDocuments, domain.ActionEdit, "document", "replace"); err != nil {
		return nil, err
	}
	input.Path = domain.UploadPathForm
	if err := s.check(ctx, input); err != nil {
		return nil, s.settle(ctx, sess, "replace", "replace_document", err)
	}

	old, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "document", "replace", "replace_document", err)
	}
	if err := s.docRepo.Delete(ctx, old.ID); err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "document", "replace", "replace_document", err)
	}
	return s.create(ctx, sess, input, "replace", "replace_document")
}

func (s *documentService) Delete(ctx context.Context, sess *domain.Session, id string) error {
	if err := s.fx.authorize(sess, domain.ResourceDocuments, domain.ActionDelete, "document", "delete"); err != nil {
		return err
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return s.fx.gatewayFailure(ctx, sess, "document", "delete", "delete_document", err)
	}
	if err := s.docRepo.Delete(ctx, id); err != nil {
		return s.fx.gatewayFailure(ctx, sess, "document", "delete", "delete_document", err)
	}

	s.fx.succeed(ctx, sess, "document", "delete", &note{
		Type:    domain.NotificationDocument,
		Title:   "Document deleted",
		Message: fmt.Sprintf("%s was deleted", doc.Name),
		Target:  sess.ActorID(),
	}, audited{
		Action:  "delete_document",
		Message: fmt.Sprintf("Document %q was deleted", doc.Name),
		Details: doc.ID,
	})
	return nil
}

func (s *documentService) List(ctx context.Context, sess *domain.Session, input ListDocumentsInput) ([]domain.Document, error) {
	if err := s.fx.authorize(sess, domain.ResourceDocuments, domain.ActionView, "document", "list"); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, s.fx.invalid("document", "list", err)
	}

	docs, err := s.docRepo.List(ctx, domain.DocumentFilter{
		Query:      strings.TrimSpace(input.Query),
		Date:       input.Date,
		CategoryID: input.CategoryID,
		FileType:   strings.ToLower(strings.TrimSpace(input.FileType)),
		Offset:     input.Offset,
		Limit:      input.Limit,
	})
	if err != nil {
		return nil, s.fx.gatewayFailure(ctx, sess, "document", "list", "list_documents", err)
	}
	return docs, nil
}
