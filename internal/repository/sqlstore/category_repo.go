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

var categoryColumns = []string{"id", "name", "parent_id", "created_at"}

type categoryRepo struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// NewCategoryRepo creates a new SQL-backed CategoryRepository. Categories
// and subcategories share one table; parent_id is NULL for roots.
func NewCategoryRepo(db *sqlx.DB) port.CategoryRepository {
	return &categoryRepo{db: db, sb: statementBuilder(db)}
}

func (r *categoryRepo) Create(ctx context.Context, node *domain.CategoryNode) error {
	if node.CreatedAt.IsZero() {
		node.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.sb.Insert("categories").
		Columns(categoryColumns...).
		Values(node.ID, node.Name, node.ParentID, node.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("categoryRepo.Create build: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("categoryRepo.Create: %w", err)
	}
	return nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*domain.CategoryNode, error) {
	query, args, err := r.sb.Select(categoryColumns...).From("categories").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("categoryRepo.GetByID build: %w", err)
	}

	var node domain.CategoryNode
	if err := r.db.GetContext(ctx, &node, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("categoryRepo.GetByID: %w", err)
	}
	return &node, nil
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	query, args, err := r.sb.Delete("categories").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("categoryRepo.Delete build: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("categoryRepo.Delete: %w", err)
	}
	return nil
}

func (r *categoryRepo) List(ctx context.Context) ([]domain.CategoryNode, error) {
	query, args, err := r.sb.Select(categoryColumns...).From("categories").OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("categoryRepo.List build: %w", err)
	}

	nodes := []domain.CategoryNode{}
	if err := r.db.SelectContext(ctx, &nodes, query, args...); err != nil {
		return nil, fmt.Errorf("categoryRepo.List: %w", err)
	}
	return nodes, nil
}
