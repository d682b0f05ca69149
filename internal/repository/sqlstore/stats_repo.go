package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gdocs/internal/domain"
	"gdocs/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new SQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

const totalsQuery = `SELECT
	(SELECT COUNT(*) FROM documents) AS total_documents,
	(SELECT COALESCE(SUM(file_size), 0) FROM documents) AS total_storage_bytes,
	(SELECT COUNT(*) FROM users) AS total_users,
	(SELECT COUNT(*) FROM users WHERE role = 'admin') AS total_admins,
	(SELECT COUNT(*) FROM logs) AS total_logs`

// documents without a live root category are counted under
// domain.UncategorizedLabel
const byCategoryQuery = `SELECT COALESCE(c.name, '` + domain.UncategorizedLabel + `') AS label, COUNT(*) AS total
FROM documents d
LEFT JOIN categories c ON c.id = d.category_id AND c.parent_id IS NULL
GROUP BY COALESCE(c.name, '` + domain.UncategorizedLabel + `')`

const byTypeQuery = `SELECT file_type AS label, COUNT(*) AS total FROM documents GROUP BY file_type`

type totalsRow struct {
	TotalDocuments    int   `db:"total_documents"`
	TotalStorageBytes int64 `db:"total_storage_bytes"`
	TotalUsers        int   `db:"total_users"`
	TotalAdmins       int   `db:"total_admins"`
	TotalLogs         int   `db:"total_logs"`
}

type bucketRow struct {
	Label string `db:"label"`
	Total int    `db:"total"`
}

func (r *statsRepo) GetStats(ctx context.Context) (*domain.Stats, error) {
	var totals totalsRow
	if err := r.db.GetContext(ctx, &totals, totalsQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.GetStats totals: %w", err)
	}

	stats := &domain.Stats{
		TotalDocuments:      totals.TotalDocuments,
		TotalStorageBytes:   totals.TotalStorageBytes,
		TotalUsers:          totals.TotalUsers,
		TotalAdmins:         totals.TotalAdmins,
		TotalLogs:           totals.TotalLogs,
		DocumentsByCategory: map[string]int{},
		DocumentsByType:     map[string]int{},
	}

	var buckets []bucketRow
	if err := r.db.SelectContext(ctx, &buckets, byCategoryQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.GetStats by category: %w", err)
	}
	for _, b := range buckets {
		stats.DocumentsByCategory[b.Label] = b.Total
	}

	var types []bucketRow
	if err := r.db.SelectContext(ctx, &types, byTypeQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.GetStats by type: %w", err)
	}
	for _, b := range types {
		stats.DocumentsByType[b.Label] = b.Total
	}

	return stats, nil
}
