package handler

import (
	"github.com/gin-gonic/gin"

	"gdocs/internal/service"
)

// CategoryHandler handles category and subcategory endpoints.
type CategoryHandler struct {
	categoryService service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type nameRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/v1/categories
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} APIResponse{data=[]domain.Category} "Categories with subcategories"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	tree, err := h.categoryService.ListCategories(c.Request.Context(), sess)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tree)
}

// Create handles POST /api/v1/categories
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Param body body nameRequest true "Name"
// @Success 201 {object} APIResponse{data=domain.Category} "Created category"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 409 {object} APIResponse "Name taken"
// @Security BearerAuth
// @Router /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	var req nameRequest
	if !bindJSON(c, &req) {
		return
	}

	cat, err := h.categoryService.AddCategory(c.Request.Context(), sess, req.Name)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, cat)
}

// Delete handles DELETE /api/v1/categories/:id
// @Summary Delete category
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} APIResponse{data=object} "Deleted"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), sess, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "category deleted"})
}

// AddSubcategory handles POST /api/v1/categories/:id/subcategories
// @Summary Add subcategory
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param body body nameRequest true "Name"
// @Success 201 {object} APIResponse{data=domain.Subcategory} "Created subcategory"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 404 {object} APIResponse "Parent not found"
// @Failure 409 {object} APIResponse "Name taken"
// @Security BearerAuth
// @Router /categories/{id}/subcategories [post]
func (h *CategoryHandler) AddSubcategory(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	var req nameRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.categoryService.AddSubcategory(c.Request.Context(), sess, c.Param("id"), req.Name)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, sub)
}

// GetSubcategory handles GET /api/v1/subcategories/:id
// @Summary Get subcategory
// @Tags categories
// @Produce json
// @Param id path string true "Subcategory ID"
// @Success 200 {object} APIResponse{data=domain.Subcategory} "Subcategory"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /subcategories/{id} [get]
func (h *CategoryHandler) GetSubcategory(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	sub, err := h.categoryService.GetSubcategory(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, sub)
}

// DeleteSubcategory handles DELETE /api/v1/subcategories/:id
// @Summary Delete subcategory
// @Tags categories
// @Produce json
// @Param id path string true "Subcategory ID"
// @Success 200 {object} APIResponse{data=object} "Deleted"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /subcategories/{id} [delete]
func (h *CategoryHandler) DeleteSubcategory(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	if err := h.categoryService.DeleteSubcategory(c.Request.Context(), sess, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "subcategory deleted"})
}
