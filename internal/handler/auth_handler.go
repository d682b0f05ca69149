package handler

import (
	"github.com/gin-gonic/gin"

	"gdocs/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// Login handles POST /api/v1/auth/login
// @Summary Sign in
// @Description Exchange a username and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.LoginInput true "Credentials"
// @Success 200 {object} APIResponse{data=service.LoginResult} "Token and user"
// @Failure 400 {object} APIResponse "Malformed body"
// @Failure 401 {object} APIResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Register handles POST /api/v1/auth/register. The user service refuses it
// unless self-registration is enabled.
// @Summary Register an account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RegisterInput true "New account"
// @Success 201 {object} APIResponse{data=domain.User} "Created user"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 403 {object} APIResponse "Registration disabled"
// @Failure 409 {object} APIResponse "Username taken"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input service.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.userService.Register(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, user)
}

// Logout handles POST /api/v1/auth/logout
// @Summary Sign out
// @Tags auth
// @Produce json
// @Success 200 {object} APIResponse{data=object} "Signed out"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), sess); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "logged out"})
}

// Me handles GET /api/v1/auth/me
// @Summary Current user
// @Description Return the signed-in user and their notification settings
// @Tags auth
// @Produce json
// @Success 200 {object} APIResponse{data=object} "User and settings"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	RespondOK(c, gin.H{
		"user":                  sess.User,
		"notification_settings": sess.Settings,
	})
}
