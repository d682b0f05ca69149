package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"gdocs/internal/domain"
	"gdocs/internal/port"
)

var userColumns = []string{
	"id", "username", "password", "role", "email",
	"profile_photo", "permissions", "created_at", "last_login",
}

type userRepo struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// NewUserRepo creates a new SQL-backed UserRepository.
func NewUserRepo(db *sqlx.DB) port.UserRepository {
	return &userRepo{db: db, sb: statementBuilder(db)}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.sb.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Username, user.Password, user.Role, user.Email,
			user.ProfilePhoto, user.Permissions, user.CreatedAt, user.LastLogin).
		ToSql()
	if err != nil {
		return fmt.Errorf("userRepo.Create build: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("userRepo.Create: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, "userRepo.GetByID", sq.Eq{"id": id})
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, "userRepo.GetByUsername", sq.Eq{"username": username})
}

func (r *userRepo) GetByCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := r.getOne(ctx, "userRepo.GetByCredentials", sq.Eq{"username": username})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil
	}
	return user, nil
}

func (r *userRepo) getOne(ctx context.Context, op string, where sq.Eq) (*domain.User, error) {
	query, args, err := r.sb.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s build: %w", op, err)
	}

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, patch domain.UserPatch) (*domain.User, error) {
	set := map[string]interface{}{}
	if patch.Username != nil {
		set["username"] = *patch.Username
	}
	if patch.Password != nil {
		set["password"] = *patch.Password
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if patch.ProfilePhoto != nil {
		set["profile_photo"] = *patch.ProfilePhoto
	}
	if patch.Permissions != nil {
		set["permissions"] = *patch.Permissions
	}
	if patch.LastLogin != nil {
		set["last_login"] = *patch.LastLogin
	}
	if len(set) == 0 {
		return r.GetByID(ctx, patch.ID)
	}

	query, args, err := r.sb.Update("users").SetMap(set).Where(sq.Eq{"id": patch.ID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("userRepo.Update build: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateName
		}
		return nil, fmt.Errorf("userRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, patch.ID)
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	query, args, err := r.sb.Delete("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("userRepo.Delete build: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("userRepo.Delete: %w", err)
	}
	return nil
}

func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	query, args, err := r.sb.Select(userColumns...).From("users").OrderBy("created_at ASC", "username ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("userRepo.List build: %w", err)
	}

	users := []domain.User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("userRepo.List: %w", err)
	}
	return users, nil
}
