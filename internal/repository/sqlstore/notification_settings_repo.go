package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"gdocs/internal/domain"
	"gdocs/internal/port"
)

type notificationSettingsRepo struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// NewNotificationSettingsRepo creates a new SQL-backed NotificationSettingsRepository.
func NewNotificationSettingsRepo(db *sqlx.DB) port.NotificationSettingsRepository {
	return &notificationSettingsRepo{db: db, sb: statementBuilder(db)}
}

func (r *notificationSettingsRepo) Get(ctx context.Context, userID string) (*domain.NotificationSettings, error) {
	query, args, err := r.sb.Select("user_id", "documents", "user_activity", "system_updates").
		From("notification_settings").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("notificationSettingsRepo.Get build: %w", err)
	}

	var s domain.NotificationSettings
	if err := r.db.GetContext(ctx, &s, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("notificationSettingsRepo.Get: %w", err)
	}
	return &s, nil
}

// Upsert relies on INSERT ... ON CONFLICT, available in PostgreSQL and SQLite 3.24+.
func (r *notificationSettingsRepo) Upsert(ctx context.Context, s *domain.NotificationSettings) error {
	query, args, err := r.sb.Insert("notification_settings").
		Columns("user_id", "documents", "user_activity", "system_updates").
		Values(s.UserID, s.Documents, s.UserActivity, s.SystemUpdates).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET " +
			"documents = excluded.documents, " +
			"user_activity = excluded.user_activity, " +
			"system_updates = excluded.system_updates").
		ToSql()
	if err != nil {
		return fmt.Errorf("notificationSettingsRepo.Upsert build: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("notificationSettingsRepo.Upsert: %w", err)
	}
	return nil
}
