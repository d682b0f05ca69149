package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"gdocs/internal/csvexport"
	"gdocs/internal/service"
)

// LogHandler handles the audit log endpoints.
type LogHandler struct {
	auditService service.AuditService
}

// NewLogHandler creates a new LogHandler.
func NewLogHandler(auditService service.AuditService) *LogHandler {
	return &LogHandler{auditService: auditService}
}

// List handles GET /api/v1/logs
// @Summary List audit log entries
// @Tags logs
// @Produce json
// @Success 200 {object} APIResponse{data=[]domain.LogEntry} "Entries, newest first"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Security BearerAuth
// @Router /logs [get]
func (h *LogHandler) List(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	entries, err := h.auditService.List(c.Request.Context(), sess)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, entries)
}

// Export handles GET /api/v1/logs/export
// The CSV is buffered so a permission or gateway error can still be
// reported as JSON.
// @Summary Export the audit log as CSV
// @Tags logs
// @Produce text/csv
// @Success 200 {file} file "CSV file"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Security BearerAuth
// @Router /logs/export [get]
func (h *LogHandler) Export(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.auditService.Export(c.Request.Context(), sess, &buf); err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, csvexport.BuildFilename("gdocs_logs")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Clear handles DELETE /api/v1/logs
// @Summary Clear the audit log
// @Tags logs
// @Produce json
// @Success 200 {object} APIResponse{data=object} "Cleared"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Security BearerAuth
// @Router /logs [delete]
func (h *LogHandler) Clear(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	if err := h.auditService.Clear(c.Request.Context(), sess); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "logs cleared"})
}

// Delete handles DELETE /api/v1/logs/:id
// @Summary Delete an audit log entry
// @Tags logs
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} APIResponse{data=object} "Deleted"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Security BearerAuth
// @Router /logs/{id} [delete]
func (h *LogHandler) Delete(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	if err := h.auditService.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "log deleted"})
}
