package sqlstore

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gdocs/internal/domain"
)

func TestNotificationRepo_Create(t *testing.T) {
	db, mock := newMockDB(t, "pgx")
	repo := NewNotificationRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications (id,type,title,message,created_at,is_read,user_id,created_by)")).
		WithArgs("n1", "document", "New document", "msg", sqlmock.AnyArg(), false, "u1", "u2").
		WillReturnResult(sqlmock.NewResult(1, 1))

	n := &domain.Notification{ID: "n1", Type: domain.NotificationDocument, Title: "New document", Message: "msg", UserID: "u1", CreatedBy: "u2"}
	require.NoError(t, repo.Create(context.Background(), n))
	assert.False(t, n.Timestamp.IsZero())
}

func TestNotificationRepo_List_FiltersByUser(t *testing.T) {
	db, mock := newMockDB(t, "pgx")
	repo := NewNotificationRepo(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM notifications WHERE user_id = $1 ORDER BY created_at DESC, seq DESC")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(notificationColumns).
			AddRow(2, "n2", "user", "b", "", now, false, "u1", "u9").
			AddRow(1, "n1", "user", "a", "", now, true, "u1", "u9"))

	list, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n2", list[0].ID)
	assert.True(t, list[1].Read)
}

func TestNotificationRepo_List_AllWhenUnscoped(t *testing.T) {
	db, mock := newMockDB(t, "pgx")
	repo := NewNotificationRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM notifications ORDER BY created_at DESC, seq DESC")).
		WithoutArgs().
		WillReturnRows(sqlmock.NewRows(notificationColumns))

	list, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNotificationRepo_MarkRead(t *testing.T) {
	db, mock := newMockDB(t, "pgx")
	repo := NewNotificationRepo(db)

	stmt := regexp.QuoteMeta("UPDATE notifications SET is_read = $1 WHERE id = $2")
	mock.ExpectExec(stmt).WithArgs(true, "n1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(stmt).WithArgs(true, "n1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(stmt).WithArgs(true, "gone").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.MarkRead(context.Background(), "n1"))
	assert.NoError(t, repo.MarkRead(context.Background(), "n1"))
	assert.ErrorIs(t, repo.MarkRead(context.Background(), "gone"), domain.ErrNotFound)
}

func TestNotificationRepo_Delete(t *testing.T) {
	db, mock := newMockDB(t, "pgx")
	repo := NewNotificationRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notifications WHERE user_id = $1")).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("^DELETE FROM notifications$").WillReturnResult(sqlmock.NewResult(0, 5))

	require.NoError(t, repo.DeleteForUser(context.Background(), "u1"))
	require.NoError(t, repo.DeleteAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationSettingsRepo(t *testing.T) {
	db, mock := newMockDB(t, "sqlite3")
	repo := NewNotificationSettingsRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM notification_settings WHERE user_id = ?")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "documents", "user_activity", "system_updates"}))

	_, err := repo.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id) DO UPDATE SET")).
		WithArgs("u1", true, false, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Upsert(context.Background(), &domain.NotificationSettings{UserID: "u1", Documents: true, SystemUpdates: true})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
