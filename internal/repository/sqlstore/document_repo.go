package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"gdocs/internal/domain"
	"gdocs/internal/port"
)

var documentColumns = []string{
	"id", "name", "document_date", "category_id", "subcategory_id",
	"file_url", "file_type", "file_size", "upload_date", "user_id",
}

type documentRepo struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// NewDocumentRepo creates a new SQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db, sb: statementBuilder(db)}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	if doc.UploadDate.IsZero() {
		doc.UploadDate = time.Now().UTC()
	}

	query, args, err := r.sb.Insert("documents").
		Columns(documentColumns...).
		Values(doc.ID, doc.Name, doc.Date, doc.CategoryID, doc.SubcategoryID,
			doc.FileURL, doc.FileType, doc.FileSize, doc.UploadDate, doc.UserID).
		ToSql()
	if err != nil {
		return fmt.Errorf("documentRepo.Create build: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	query, args, err := r.sb.Select(documentColumns...).From("documents").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("documentRepo.GetByID build: %w", err)
	}

	var doc domain.Document
	if err := r.db.GetContext(ctx, &doc, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) Delete(ctx context.Context, id string) error {
	query, args, err := r.sb.Delete("documents").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("documentRepo.Delete build: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	return nil
}

// unbounded stands in for a missing LIMIT; sqlite rejects OFFSET without one.
const unbounded = math.MaxInt64

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere, with wildcard
// characters in s taken literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func (r *documentRepo) List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	qb := r.sb.Select(documentColumns...).From("documents")
	if filter.Query != "" {
		qb = qb.Where(sq.Expr(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(filter.Query)))
	}
	if filter.Date != "" {
		qb = qb.Where(sq.Eq{"document_date": filter.Date})
	}
	if filter.CategoryID != "" {
		qb = qb.Where(sq.Or{
			sq.Eq{"category_id": filter.CategoryID},
			sq.Eq{"subcategory_id": filter.CategoryID},
		})
	}
	if filter.FileType != "" {
		qb = qb.Where(sq.Expr(`file_type LIKE ? ESCAPE '\'`, containsPattern(filter.FileType)))
	}
	qb = qb.OrderBy("upload_date DESC", "id")
	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			qb = qb.Limit(unbounded)
		}
		qb = qb.Offset(uint64(filter.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("documentRepo.List build: %w", err)
	}

	docs := []domain.Document{}
	if err := r.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("documentRepo.List: %w", err)
	}
	return docs, nil
}
