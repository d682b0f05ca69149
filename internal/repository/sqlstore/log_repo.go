package sqlstore

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"gdocs/internal/domain"
	"gdocs/internal/port"
)

var logColumns = []string{"seq", "id", "severity", "action", "message", "details", "created_at", "user_id"}

type logRepo struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// NewLogRepo creates a new SQL-backed LogRepository.
func NewLogRepo(db *sqlx.DB) port.LogRepository {
	return &logRepo{db: db, sb: statementBuilder(db)}
}

func (r *logRepo) Create(ctx context.Context, entry *domain.LogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	query, args, err := r.sb.Insert("logs").
		Columns("id", "severity", "action", "message", "details", "created_at", "user_id").
		Values(entry.ID, entry.Type, entry.Action, entry.Message, entry.Details, entry.Timestamp, entry.UserID).
		ToSql()
	if err != nil {
		return fmt.Errorf("logRepo.Create build: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("logRepo.Create: %w", err)
	}
	return nil
}

// List orders by timestamp, then by seq so entries sharing a timestamp come
// back last-inserted first.
func (r *logRepo) List(ctx context.Context) ([]domain.LogEntry, error) {
	query, args, err := r.sb.Select(logColumns...).From("logs").OrderBy("created_at DESC", "seq DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("logRepo.List build: %w", err)
	}

	entries := []domain.LogEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("logRepo.List: %w", err)
	}
	return entries, nil
}

func (r *logRepo) Delete(ctx context.Context, id string) error {
	query, args, err := r.sb.Delete("logs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("logRepo.Delete build: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("logRepo.Delete: %w", err)
	}
	return nil
}

func (r *logRepo) Clear(ctx context.Context) error {
	query, args, err := r.sb.Delete("logs").ToSql()
	if err != nil {
		return fmt.Errorf("logRepo.Clear build: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("logRepo.Clear: %w", err)
	}
	return nil
}
