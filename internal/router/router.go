package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gdocs/internal/handler"
	"gdocs/internal/logger"
	"gdocs/internal/middleware"
	"gdocs/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Document     *handler.DocumentHandler
	Category     *handler.CategoryHandler
	Notification *handler.NotificationHandler
	Log          *handler.LogHandler
	Stats        *handler.StatsHandler
	Health       *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
// Authorization is decided by the services; the router only requires a
// session on the protected group.
func Setup(authSvc service.AuthService, h Handlers, allowedOrigins []string, log *logger.Logger) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks and metrics
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/register", h.Auth.Register)

	// Protected routes - require a valid token
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/auth/me", h.Auth.Me)

	users := protected.Group("/users")
	users.GET("", h.User.List)
	users.POST("", h.User.Create)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id", h.User.Update)
	users.DELETE("/:id", h.User.Delete)
	users.PUT("/:id/permissions", h.User.UpdatePermissions)
	protected.PUT("/profile", h.User.UpdateProfile)

	docs := protected.Group("/documents")
	docs.GET("", h.Document.List)
	docs.POST("", h.Document.Create)
	docs.POST("/upload", h.Document.Upload)
	docs.POST("/batch", h.Document.BatchUpload)
	docs.POST("/import", h.Document.Import)
	docs.PUT("/:id", h.Document.Replace)
	docs.DELETE("/:id", h.Document.Delete)

	cats := protected.Group("/categories")
	cats.GET("", h.Category.List)
	cats.POST("", h.Category.Create)
	cats.DELETE("/:id", h.Category.Delete)
	cats.POST("/:id/subcategories", h.Category.AddSubcategory)

	subs := protected.Group("/subcategories")
	subs.GET("/:id", h.Category.GetSubcategory)
	subs.DELETE("/:id", h.Category.DeleteSubcategory)

	notifications := protected.Group("/notifications")
	notifications.GET("", h.Notification.List)
	notifications.DELETE("", h.Notification.ClearAll)
	notifications.GET("/settings", h.Notification.GetSettings)
	notifications.PUT("/settings", h.Notification.UpdateSettings)
	notifications.POST("/:id/read", h.Notification.MarkRead)

	logs := protected.Group("/logs")
	logs.GET("", h.Log.List)
	logs.DELETE("", h.Log.Clear)
	logs.GET("/export", h.Log.Export)
	logs.DELETE("/:id", h.Log.Delete)

	protected.GET("/stats", h.Stats.GetStats)

	return r
}
