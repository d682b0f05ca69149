package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"gdocs/internal/domain"
	"gdocs/internal/port"
)

var notificationColumns = []string{
	"seq", "id", "type", "title", "message", "created_at", "is_read", "user_id", "created_by",
}

type notificationRepo struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// NewNotificationRepo creates a new SQL-backed NotificationRepository.
func NewNotificationRepo(db *sqlx.DB) port.NotificationRepository {
	return &notificationRepo{db: db, sb: statementBuilder(db)}
}

func (r *notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}

	// seq is assigned by the database
	query, args, err := r.sb.Insert("notifications").
		Columns("id", "type", "title", "message", "created_at", "is_read", "user_id", "created_by").
		Values(n.ID, n.Type, n.Title, n.Message, n.Timestamp, n.Read, n.UserID, n.CreatedBy).
		ToSql()
	if err != nil {
		return fmt.Errorf("notificationRepo.Create build: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("notificationRepo.Create: %w", err)
	}
	return nil
}

func (r *notificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	query, args, err := r.sb.Select(notificationColumns...).From("notifications").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("notificationRepo.GetByID build: %w", err)
	}

	var n domain.Notification
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("notificationRepo.GetByID: %w", err)
	}
	return &n, nil
}

func (r *notificationRepo) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	b := r.sb.Select(notificationColumns...).From("notifications")
	if userID != "" {
		b = b.Where(sq.Eq{"user_id": userID})
	}
	query, args, err := b.OrderBy("created_at DESC", "seq DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("notificationRepo.List build: %w", err)
	}

	out := []domain.Notification{}
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("notificationRepo.List: %w", err)
	}
	return out, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string) error {
	query, args, err := r.sb.Update("notifications").Set("is_read", true).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("notificationRepo.MarkRead build: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("notificationRepo.MarkRead: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *notificationRepo) DeleteAll(ctx context.Context) error {
	query, args, err := r.sb.Delete("notifications").ToSql()
	if err != nil {
		return fmt.Errorf("notificationRepo.DeleteAll build: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("notificationRepo.DeleteAll: %w", err)
	}
	return nil
}

func (r *notificationRepo) DeleteForUser(ctx context.Context, userID string) error {
	query, args, err := r.sb.Delete("notifications").Where(sq.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return fmt.Errorf("notificationRepo.DeleteForUser build: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("notificationRepo.DeleteForUser: %w", err)
	}
	return nil
}
