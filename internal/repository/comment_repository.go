package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Comment represents a comment on a task.  Comments are soft-deleted and
// authorization for them is wider than the ownership chain: the author may
// always read and edit their own comment (decided by the resolver).
type Comment struct {
	ID        uint64       `json:"id"`
	Text      string       `json:"text"`
	TaskID    uint64       `json:"task_id"`
	AuthorID  uint64       `json:"author_id"`
	CreatedAt time.Time    `json:"created_at"`
	DeletedAt sql.NullTime `json:"-"`
}

// ErrCommentNotFound is returned when a comment does not exist or has
// been soft-deleted.
var ErrCommentNotFound = errors.New("comment not found")

// CommentRepo encapsulates all database queries related to comments.
type CommentRepo struct {
	db *sql.DB
}

func NewCommentRepo(db *sql.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

// Create inserts a new comment and reloads the server-side created_at.
func (r *CommentRepo) Create(ctx context.Context, c *Comment) error {
	const qInsert = "INSERT INTO comments (text, task_id, author_id) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, c.Text, c.TaskID, c.AuthorID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	const qSelect = "SELECT text, task_id, author_id, created_at FROM comments WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, c.ID).Scan(&c.Text, &c.TaskID, &c.AuthorID, &c.CreatedAt)
}

// GetByID fetches a live comment by id.
func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (*Comment, error) {
	const q = `SELECT id, text, task_id, author_id, created_at
	           FROM comments WHERE id = ? AND deleted_at IS NULL`
	var c Comment
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Text, &c.TaskID, &c.AuthorID, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByTask returns one page of a task's live comments in insertion
// order (created_at, ties by id), plus the total before pagination.
func (r *CommentRepo) ListByTask(ctx context.Context, taskID uint64, skip, limit int) ([]*Comment, int64, error) {
	var total int64
	const qCount = "SELECT COUNT(*) FROM comments WHERE task_id = ? AND deleted_at IS NULL"
	if err := r.db.QueryRowContext(ctx, qCount, taskID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `SELECT id, text, task_id, author_id, created_at
	           FROM comments WHERE task_id = ? AND deleted_at IS NULL
	           ORDER BY created_at, id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, taskID, limit, skip)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*Comment, 0, limit)
	for rows.Next() {
		c := new(Comment)
		if err := rows.Scan(&c.ID, &c.Text, &c.TaskID, &c.AuthorID, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateText edits a live comment's text.
func (r *CommentRepo) UpdateText(ctx context.Context, id uint64, text string) error {
	const q = "UPDATE comments SET text = ? WHERE id = ? AND deleted_at IS NULL"
	res, err := r.db.ExecContext(ctx, q, text, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// SoftDelete marks a live comment as deleted.
func (r *CommentRepo) SoftDelete(ctx context.Context, id uint64) error {
	const q = "UPDATE comments SET deleted_at = NOW() WHERE id = ? AND deleted_at IS NULL"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCommentNotFound
	}
	return nil
}
