// This file defines the Task model and repository.  Tasks are the only
// entity with a derived column: search_vector is a denormalized
// projection of title + description kept in sync on every write so the
// fulltext search backend can index it.  It is a performance index, never
// a source of truth.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Task priority levels, ordered from least to most urgent.
const (
	PriorityLow      = "LOW"
	PriorityMedium   = "MEDIUM"
	PriorityHigh     = "HIGH"
	PriorityCritical = "CRITICAL"
)

// ValidPriority reports whether p is one of the defined priority levels.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Task represents a task row.  Description and AssigneeID are nullable;
// an assignee is detached (SET NULL) when the user is deleted.  Tasks are
// soft-deleted: Remove marks deleted_at and every read path here skips
// marked rows.
type Task struct {
	ID          uint64       `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Priority    string       `json:"priority"`
	Position    int          `json:"position"`
	ColumnID    uint64       `json:"column_id"`
	AssigneeID  *uint64      `json:"assignee_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	DeletedAt   sql.NullTime `json:"-"`
}

// ErrTaskNotFound is returned when a task does not exist or has been
// soft-deleted.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepo encapsulates all database queries related to tasks.
type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

// searchVector builds the denormalized text the fulltext index covers.
func searchVector(title string, description *string) string {
	if description == nil {
		return strings.TrimSpace(title)
	}
	return strings.TrimSpace(title + " " + *description)
}

const taskColumns = "id, title, description, priority, position, column_id, assignee_id, created_at, updated_at"

func scanTask(row interface{ Scan(...any) error }) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Position,
		&t.ColumnID, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new task and reloads it so server-side defaults
// (timestamps) come back populated.
func (r *TaskRepo) Create(ctx context.Context, t *Task) error {
	const q = `INSERT INTO tasks (title, description, priority, position, column_id, assignee_id, search_vector)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		t.Title, t.Description, t.Priority, t.Position, t.ColumnID, t.AssigneeID,
		searchVector(t.Title, t.Description))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	loaded, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *loaded
	return nil
}

// GetByID fetches a live task by id regardless of owner.
func (r *TaskRepo) GetByID(ctx context.Context, id uint64) (*Task, error) {
	const q = "SELECT " + taskColumns + " FROM tasks WHERE id = ? AND deleted_at IS NULL"
	t, err := scanTask(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// TaskFilter narrows ListByColumn.  Zero values mean "no filter".
type TaskFilter struct {
	Priority   string
	AssigneeID *uint64
}

// ListByColumn returns one page of a column's live tasks ordered by
// position (ties by id), plus the total count before pagination.  The
// total reflects the filter, not the page size.
func (r *TaskRepo) ListByColumn(ctx context.Context, columnID uint64, f TaskFilter, skip, limit int) ([]*Task, int64, error) {
	where := "column_id = ? AND deleted_at IS NULL"
	args := []any{columnID}
	if f.Priority != "" {
		where += " AND priority = ?"
		args = append(args, f.Priority)
	}
	if f.AssigneeID != nil {
		where += " AND assignee_id = ?"
		args = append(args, *f.AssigneeID)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT " + taskColumns + " FROM tasks WHERE " + where +
		" ORDER BY position, id LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, limit, skip)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*Task, 0, limit)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update persists every mutable field and recomputes search_vector so the
// derived projection never drifts from title/description.
func (r *TaskRepo) Update(ctx context.Context, t *Task) error {
	const q = `UPDATE tasks
	           SET title = ?, description = ?, priority = ?, position = ?,
	               column_id = ?, assignee_id = ?, search_vector = ?,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, q,
		t.Title, t.Description, t.Priority, t.Position, t.ColumnID, t.AssigneeID,
		searchVector(t.Title, t.Description), t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTaskNotFound
	}

	loaded, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *loaded
	return nil
}

// SoftDelete marks a live task as deleted.  The row and its comments stay
// in place for audit; they simply stop existing for every read path.
func (r *TaskRepo) SoftDelete(ctx context.Context, id uint64) error {
	const q = "UPDATE tasks SET deleted_at = NOW() WHERE id = ? AND deleted_at IS NULL"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTaskNotFound
	}
	return nil
}
