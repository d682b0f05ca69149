package handler

import (
	"github.com/gin-gonic/gin"

	"gdocs/internal/domain"
	"gdocs/internal/service"
)

// UserHandler handles user management endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create handles POST /api/v1/users
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param body body service.CreateUserInput true "User"
// @Success 201 {object} APIResponse{data=domain.User} "Created user"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 409 {object} APIResponse "Username taken"
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	var input service.CreateUserInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), sess, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, user)
}

// GetByID handles GET /api/v1/users/:id
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} APIResponse{data=domain.User} "User"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, user)
}

// List handles GET /api/v1/users
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} APIResponse{data=[]domain.User} "Users"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	users, err := h.userService.List(c.Request.Context(), sess)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, users)
}

// Update handles PUT /api/v1/users/:id
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body service.UpdateUserInput true "Fields to change"
// @Success 200 {object} APIResponse{data=domain.User} "Updated user"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	var input service.UpdateUserInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), sess, c.Param("id"), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, user)
}

// UpdatePermissions handles PUT /api/v1/users/:id/permissions
// @Summary Replace a user's permission matrix
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body domain.UserPermissions true "Permission matrix"
// @Success 200 {object} APIResponse{data=domain.User} "Updated user"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /users/{id}/permissions [put]
func (h *UserHandler) UpdatePermissions(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	var perms domain.UserPermissions
	if !bindJSON(c, &perms) {
		return
	}

	user, err := h.userService.UpdatePermissions(c.Request.Context(), sess, c.Param("id"), perms)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, user)
}

// UpdateProfile handles PUT /api/v1/profile
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Param body body service.UpdateProfileInput true "Profile fields"
// @Success 200 {object} APIResponse{data=domain.User} "Updated user"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	var input service.UpdateProfileInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), sess, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, user)
}

// Delete handles DELETE /api/v1/users/:id
// @Summary Delete user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} APIResponse{data=object} "Deleted"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 403 {object} APIResponse "Forbidden"
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "user deleted"})
}
