package domain

import (
	"time"
)

// User is an account that can authenticate and act on resources.
type User struct {
	ID           string          `db:"id" json:"id"`
	Username     string          `db:"username" json:"username"`
	Password     string          `db:"password" json:"-"`
	Role         UserRole        `db:"role" json:"role"`
	Email        string          `db:"email" json:"email"`
	ProfilePhoto string          `db:"profile_photo" json:"profile_photo,omitempty"`
	Permissions  UserPermissions `db:"permissions" json:"permissions"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	LastLogin    *time.Time      `db:"last_login" json:"last_login"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserPatch is a partial user update. Nil fields are left untouched.
type UserPatch struct {
	ID           string
	Username     *string
	Password     *string
	Email        *string
	Role         *UserRole
	ProfilePhoto *string
	Permissions  *UserPermissions
	LastLogin    *time.Time
}

// Document references uploaded file content by URL.
type Document struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Date          string    `db:"document_date" json:"date"`
	CategoryID    string    `db:"category_id" json:"category_id"`
	SubcategoryID *string   `db:"subcategory_id" json:"subcategory_id,omitempty"`
	FileURL       string    `db:"file_url" json:"file_url"`
	FileType      MediaType `db:"file_type" json:"file_type"`
	FileSize      int64     `db:"file_size" json:"file_size"`
	UploadDate    time.Time `db:"upload_date" json:"upload_date"`
	UserID        string    `db:"user_id" json:"user_id"`
}

// UncategorizedLabel keys the stats bucket of documents whose category no
// longer exists.
const UncategorizedLabel = "uncategorized"

// DocumentFilter narrows a document listing. Empty fields match every
// document. CategoryID matches either the category or the subcategory
// reference. A zero Limit returns every match.
type DocumentFilter struct {
	Query      string
	Date       string
	CategoryID string
	FileType   string
	Offset     int
	Limit      int
}

// CategoryNode is the flat storage row behind both categories and
// subcategories. Roots have a nil ParentID.
type CategoryNode struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	ParentID  *string   `db:"parent_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Category is a root of the category tree.
type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	CreatedAt     time.Time     `json:"created_at"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Subcategory belongs to exactly one Category.
type Subcategory struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CategoryID string    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Notification is a feed entry. An empty UserID is a broadcast.
type Notification struct {
	ID        string           `db:"id" json:"id"`
	Seq       int64            `db:"seq" json:"-"`
	Type      NotificationType `db:"type" json:"type"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	Timestamp time.Time        `db:"created_at" json:"timestamp"`
	Read      bool             `db:"is_read" json:"read"`
	UserID    string           `db:"user_id" json:"user_id"`
	CreatedBy string           `db:"created_by" json:"created_by"`
}

// NotificationSettings toggles feed entries per notification type.
type NotificationSettings struct {
	UserID        string `db:"user_id" json:"-"`
	Documents     bool   `db:"documents" json:"documents"`
	UserActivity  bool   `db:"user_activity" json:"user_activity"`
	SystemUpdates bool   `db:"system_updates" json:"system_updates"`
}

// DefaultNotificationSettings enables every notification type.
func DefaultNotificationSettings(userID string) NotificationSettings {
	return NotificationSettings{
		UserID:        userID,
		Documents:     true,
		UserActivity:  true,
		SystemUpdates: true,
	}
}

// Allows reports whether notifications of type t are enabled.
func (s NotificationSettings) Allows(t NotificationType) bool {
	switch t {
	case NotificationDocument:
		return s.Documents
	case NotificationUser:
		return s.UserActivity
	case NotificationSystem:
		return s.SystemUpdates
	default:
		return false
	}
}

// LogEntry is an append-only audit record.
type LogEntry struct {
	ID        string      `db:"id" json:"id"`
	Seq       int64       `db:"seq" json:"-"`
	Type      LogSeverity `db:"severity" json:"type"`
	Action    string      `db:"action" json:"action"`
	Message   string      `db:"message" json:"message"`
	Details   string      `db:"details" json:"details,omitempty"`
	Timestamp time.Time   `db:"created_at" json:"timestamp"`
	UserID    string      `db:"user_id" json:"user_id"`
}

// Stats holds dashboard aggregates.
type Stats struct {
	TotalDocuments      int            `json:"total_documents"`
	TotalUsers          int            `json:"total_users"`
	TotalAdmins         int            `json:"total_admins"`
	TotalStorageBytes   int64          `json:"total_storage_bytes"`
	TotalLogs           int            `json:"total_logs"`
	// DocumentsByCategory is keyed by root category name.
	DocumentsByCategory map[string]int `json:"documents_by_category"`
	DocumentsByType     map[string]int `json:"documents_by_type"`
}
