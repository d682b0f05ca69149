package domain

// MediaType is the declared MIME type of a document's file content.
type MediaType string

const (
	MediaTypePDF  MediaType = "application/pdf"
	MediaTypeJPEG MediaType = "image/jpeg"
	MediaTypePNG  MediaType = "image/png"
)

// AllowedMediaTypes lists the accepted document media types.
var AllowedMediaTypes = map[MediaType]bool{
	MediaTypePDF:  true,
	MediaTypeJPEG: true,
	MediaTypePNG:  true,
}

// AllowedExtensions maps file extensions (without dot) to MediaType.
var AllowedExtensions = map[string]MediaType{
	"pdf":  MediaTypePDF,
	"jpg":  MediaTypeJPEG,
	"jpeg": MediaTypeJPEG,
	"png":  MediaTypePNG,
}

// UploadPath selects which size ceiling applies to a new document.
type UploadPath string

const (
	// UploadPathForm is the explicit single-item form.
	UploadPathForm UploadPath = "form"
	// UploadPathBulk is drag-and-drop batch or manifest import.
	UploadPathBulk UploadPath = "bulk"
)

// UserRole is either admin or user.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// ValidUserRoles contains all assignable roles.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin: true,
	RoleUser:  true,
}

// Resource is one of the permission domains.
type Resource string

const (
	ResourceDocuments Resource = "documents"
	ResourceUsers     Resource = "users"
	ResourceSettings  Resource = "settings"
	ResourceDashboard Resource = "dashboard"
	ResourceLogs      Resource = "logs"
)

// Action is a verb checked against a Resource.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
)

// NotificationType classifies feed entries and selects the settings toggle.
type NotificationType string

const (
	NotificationDocument NotificationType = "document"
	NotificationUser     NotificationType = "user"
	NotificationSystem   NotificationType = "system"
)

// LogSeverity is the severity of an audit log entry.
type LogSeverity string

const (
	LogError   LogSeverity = "error"
	LogWarning LogSeverity = "warning"
	LogInfo    LogSeverity = "info"
)
