package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Column represents a vertical lane on a board.  Ordering within a board
// is defined by ascending position; positions need not be contiguous or
// unique, ties break by ascending id.  Columns are hard-deleted and have
// no deleted_at marker.
type Column struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	BoardID  uint64 `json:"board_id"`
}

// ErrColumnNotFound is returned when a column cannot be found.
var ErrColumnNotFound = errors.New("column not found")

// ColumnRepo encapsulates all database queries related to columns.
type ColumnRepo struct {
	db *sql.DB
}

func NewColumnRepo(db *sql.DB) *ColumnRepo {
	return &ColumnRepo{db: db}
}

// Create inserts a new column and populates its ID.
func (r *ColumnRepo) Create(ctx context.Context, c *Column) error {
	const q = "INSERT INTO columns (name, position, board_id) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Position, c.BoardID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches a column by id regardless of board owner.
func (r *ColumnRepo) GetByID(ctx context.Context, id uint64) (*Column, error) {
	const q = "SELECT id, name, position, board_id FROM columns WHERE id = ?"
	var c Column
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Position, &c.BoardID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByBoard returns one page of a board's columns ordered by position
// (ties by id), plus the total count before pagination.
func (r *ColumnRepo) ListByBoard(ctx context.Context, boardID uint64, skip, limit int) ([]*Column, int64, error) {
	var total int64
	const qCount = "SELECT COUNT(*) FROM columns WHERE board_id = ?"
	if err := r.db.QueryRowContext(ctx, qCount, boardID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `SELECT id, name, position, board_id
	           FROM columns WHERE board_id = ?
	           ORDER BY position, id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, boardID, limit, skip)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*Column, 0, limit)
	for rows.Next() {
		c := new(Column)
		if err := rows.Scan(&c.ID, &c.Name, &c.Position, &c.BoardID); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update persists a column's name and position.
func (r *ColumnRepo) Update(ctx context.Context, c *Column) error {
	const q = "UPDATE columns SET name = ?, position = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Position, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrColumnNotFound
	}
	return nil
}

// Delete removes a column physically; its tasks and their comments go
// with it via ON DELETE CASCADE.
func (r *ColumnRepo) Delete(ctx context.Context, id uint64) error {
	const q = "DELETE FROM columns WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrColumnNotFound
	}
	return nil
}
