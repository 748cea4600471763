package search

import (
	"context"
	"database/sql"
	"strings"

	"github.com/taskflow/taskflow-api/internal/repository"
)

// LikeSearcher is the fallback backend for databases without the FULLTEXT
// index: a case-insensitive substring match of the raw query against
// title or description.  Unlike the fulltext backend it treats the whole
// input as one literal, so "implement auth" only matches that exact
// substring.
type LikeSearcher struct {
	db *sql.DB
}

func NewLikeSearcher(db *sql.DB) *LikeSearcher {
	return &LikeSearcher{db: db}
}

func (s *LikeSearcher) SearchTasks(ctx context.Context, q Query) ([]*repository.Task, int64, error) {
	if strings.TrimSpace(q.Text) == "" {
		// Blank query is a defined no-op, not an error.
		return nil, 0, nil
	}
	clampPage(&q)

	const match = ` AND (LOWER(t.title) LIKE ? OR LOWER(COALESCE(t.description, '')) LIKE ?)`
	pattern := "%" + strings.ToLower(q.Text) + "%"

	var total int64
	countSQL := "SELECT COUNT(*)" + ownerJoin + match
	if err := s.db.QueryRowContext(ctx, countSQL, q.OwnerID, pattern, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := taskSelect + ownerJoin + match + " ORDER BY t.id DESC LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, dataSQL, q.OwnerID, pattern, pattern, q.Limit, q.Skip)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectTasks(rows, q.Limit, total)
}
