package port

import (
	"context"

	"gdocs/internal/domain"
)

// UserRepository defines the contract for user persistence.
// Create accepts a caller-supplied id; Delete is idempotent.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// GetByCredentials returns nil (and no error) when the username is unknown
	// or the password does not match the stored hash.
	GetByCredentials(ctx context.Context, username, password string) (*domain.User, error)
	// Update merges only the non-nil fields of patch and returns the stored
	// record, or domain.ErrNotFound.
	Update(ctx context.Context, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.User, error)
}

// DocumentRepository defines the contract for document metadata persistence.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error)
}

// CategoryRepository stores categories and subcategories as flat rows.
type CategoryRepository interface {
	Create(ctx context.Context, node *domain.CategoryNode) error
	GetByID(ctx context.Context, id string) (*domain.CategoryNode, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.CategoryNode, error)
}

// NotificationRepository defines the contract for the notification feed.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	// List returns notifications newest first. An empty userID lists all of
	// them, otherwise only those targeted at userID.
	List(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	DeleteForUser(ctx context.Context, userID string) error
}

// NotificationSettingsRepository persists per-user feed toggles.
type NotificationSettingsRepository interface {
	// Get returns domain.ErrNotFound when the user never saved settings.
	Get(ctx context.Context, userID string) (*domain.NotificationSettings, error)
	Upsert(ctx context.Context, settings *domain.NotificationSettings) error
}

// LogRepository defines the contract for the append-only audit log.
type LogRepository interface {
	Create(ctx context.Context, entry *domain.LogEntry) error
	// List returns entries newest first, ties broken by insertion order.
	List(ctx context.Context) ([]domain.LogEntry, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
