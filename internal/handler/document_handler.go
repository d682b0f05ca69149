package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"gdocs/internal/service"
)

// multipartOverhead is the allowance for form fields and part headers on top
// of the file size ceiling.
const multipartOverhead = 1 << 20

// DocumentHandler handles document endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
	limits          service.UploadLimits
}

// NewDocumentHandler creates a new DocumentHandler. limits bound the request
// bodies accepted by the upload endpoints.
func NewDocumentHandler(documentService service.DocumentService, limits service.UploadLimits) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, limits: limits}
}

// List handles GET /api/v1/documents
// @Summary List documents
// @Description List documents, newest upload first, with optional filters
// @Tags documents
// @Produce json
// @Param q query string false "Name contains (case-insensitive)"
// @Param date query string false "Document date (YYYY-MM-DD)"
// @Param category_id query string false "Category or subcategory ID"
// @Param file_type query string false "Media type contains, e.g. pdf"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100, omit for all)"
// @Success 200 {object} APIResponse{data=[]domain.Document} "Documents"
// @Failure 400 {object} APIResponse "Invalid filter"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Security BearerAuth
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	input := service.ListDocumentsInput{
		Query:      c.Query("q"),
		Date:       c.Query("date"),
		CategoryID: c.Query("category_id"),
		FileType:   c.Query("file_type"),
		Offset:     offset,
		Limit:      limit,
	}

	docs, err := h.documentService.List(c.Request.Context(), sess, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, docs)
}

// Create handles POST /api/v1/documents for content that already has a URL.
// @Summary Register a document by URL
// @Tags documents
// @Accept json
// @Produce json
// @Param body body service.CreateDocumentInput true "Document"
// @Success 201 {object} APIResponse{data=domain.Document} "Created document"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Security BearerAuth
// @Router /documents [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	var input service.CreateDocumentInput
	if !bindJSON(c, &input) {
		return
	}

	doc, err := h.documentService.Create(c.Request.Context(), sess, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// Upload handles POST /api/v1/documents/upload (multipart, single file)
// @Summary Upload a document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF, JPEG or PNG"
// @Param name formData string false "Display name"
// @Param date formData string false "Document date (YYYY-MM-DD)"
// @Param category_id formData string false "Category ID"
// @Param subcategory_id formData string false "Subcategory ID"
// @Success 201 {object} APIResponse{data=domain.Document} "Created document"
// @Failure 400 {object} APIResponse "Missing file or unsupported type"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 413 {object} APIResponse "File too large"
// @Security BearerAuth
// @Router /documents/upload [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.limits.Form+multipartOverhead)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondFormError(c, err, "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	input := service.UploadDocumentInput{
		Name:          c.PostForm("name"),
		Date:          c.PostForm("date"),
		CategoryID:    c.PostForm("category_id"),
		SubcategoryID: c.PostForm("subcategory_id"),
		File: service.FileUpload{
			Filename: header.Filename,
			Size:     header.Size,
			Content:  file,
		},
	}

	doc, err := h.documentService.Upload(c.Request.Context(), sess, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// BatchUpload handles POST /api/v1/documents/batch (multipart, "files")
// @Summary Upload several documents
// @Description Categories are detected from file names
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files"
// @Success 201 {object} APIResponse{data=[]service.BulkResult} "All uploaded"
// @Success 207 {object} APIResponse{data=[]service.BulkResult} "Partial success"
// @Failure 400 {object} APIResponse "Missing files"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 413 {object} APIResponse "Request too large"
// @Security BearerAuth
// @Router /documents/batch [post]
func (h *DocumentHandler) BatchUpload(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.limits.Form+multipartOverhead)

	form, err := c.MultipartForm()
	if err != nil {
		respondFormError(c, err, "multipart form is required")
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILES", "at least one file is required in 'files' field")
		return
	}

	inputs := make([]service.FileUpload, 0, len(fileHeaders))
	openFiles := make([]multipart.File, 0, len(fileHeaders))
	defer func() {
		for _, f := range openFiles {
			_ = f.Close()
		}
	}()
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "FILE_READ_ERROR", "failed to read uploaded file")
			return
		}
		openFiles = append(openFiles, f)
		inputs = append(inputs, service.FileUpload{Filename: fh.Filename, Size: fh.Size, Content: f})
	}

	results, err := h.documentService.BulkUpload(c.Request.Context(), sess, inputs)
	if err != nil {
		HandleError(c, err)
		return
	}

	respondBatch(c, results)
}

// Import handles POST /api/v1/documents/import (multipart, "manifest" xlsx)
// @Summary Import a spreadsheet manifest
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param manifest formData file true "xlsx manifest"
// @Success 201 {object} APIResponse{data=[]service.BulkResult} "All rows imported"
// @Success 207 {object} APIResponse{data=[]service.BulkResult} "Partial success"
// @Failure 400 {object} APIResponse "Invalid manifest"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Security BearerAuth
// @Router /documents/import [post]
func (h *DocumentHandler) Import(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.limits.Bulk+multipartOverhead)

	file, _, err := c.Request.FormFile("manifest")
	if err != nil {
		respondFormError(c, err, "manifest field is required")
		return
	}
	defer func() { _ = file.Close() }()

	results, err := h.documentService.Import(c.Request.Context(), sess, file)
	if err != nil {
		HandleError(c, err)
		return
	}

	respondBatch(c, results)
}

// Replace handles PUT /api/v1/documents/:id
// @Summary Replace a document
// @Description Delete the document and register the new content under a new ID
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param body body service.CreateDocumentInput true "Document"
// @Success 200 {object} APIResponse{data=domain.Document} "New document"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /documents/{id} [put]
func (h *DocumentHandler) Replace(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	var input service.CreateDocumentInput
	if !bindJSON(c, &input) {
		return
	}

	doc, err := h.documentService.Replace(c.Request.Context(), sess, c.Param("id"), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Delete handles DELETE /api/v1/documents/:id
// @Summary Delete a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} APIResponse{data=object} "Deleted"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "document deleted"})
}

// respondBatch answers 201 when every item succeeded and 207 otherwise.
func respondBatch(c *gin.Context, results []service.BulkResult) {
	for _, r := range results {
		if r.Error != "" {
			c.JSON(http.StatusMultiStatus, APIResponse{Success: true, Data: results})
			return
		}
	}
	RespondCreated(c, results)
}

func respondFormError(c *gin.Context, err error, msg string) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "request body exceeds maximum allowed size")
		return
	}
	RespondError(c, http.StatusBadRequest, "MISSING_FILE", msg)
}
