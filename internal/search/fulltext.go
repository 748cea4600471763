package search

import (
	"context"
	"database/sql"
	"strings"

	"github.com/taskflow/taskflow-api/internal/repository"
)

// FulltextSearcher matches against the FULLTEXT index on
// tasks.search_vector using boolean mode.  The input is split on
// whitespace and every term is required, so "implement auth" means
// implement AND auth.
type FulltextSearcher struct {
	db *sql.DB
}

func NewFulltextSearcher(db *sql.DB) *FulltextSearcher {
	return &FulltextSearcher{db: db}
}

// buildBooleanQuery turns free text into a MySQL boolean-mode expression:
// each whitespace-separated term becomes a required quoted token.  An
// empty result means there is nothing to search for.
func buildBooleanQuery(text string) string {
	terms := strings.Fields(text)
	parts := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ReplaceAll(term, `"`, "")
		if term == "" {
			continue
		}
		parts = append(parts, `+"`+term+`"`)
	}
	return strings.Join(parts, " ")
}

func (s *FulltextSearcher) SearchTasks(ctx context.Context, q Query) ([]*repository.Task, int64, error) {
	expr := buildBooleanQuery(q.Text)
	if expr == "" {
		// Blank query is a defined no-op, not an error.
		return nil, 0, nil
	}
	clampPage(&q)

	const match = " AND MATCH(t.search_vector) AGAINST (? IN BOOLEAN MODE)"

	var total int64
	countSQL := "SELECT COUNT(*)" + ownerJoin + match
	if err := s.db.QueryRowContext(ctx, countSQL, q.OwnerID, expr).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := taskSelect + ownerJoin + match + " ORDER BY t.id DESC LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, dataSQL, q.OwnerID, expr, q.Limit, q.Skip)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectTasks(rows, q.Limit, total)
}

// collectTasks drains one page of task rows.  Shared by both backends so
// their result shape cannot drift apart.
func collectTasks(rows *sql.Rows, limit int, total int64) ([]*repository.Task, int64, error) {
	out := make([]*repository.Task, 0, limit)
	for rows.Next() {
		var t repository.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Position,
			&t.ColumnID, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
