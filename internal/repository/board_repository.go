// This file defines the Board model and repository methods for CRUD and
// lookup operations.  A Board is the root of the ownership chain: columns,
// tasks and comments all derive their access-control decision from the
// board's owner_id.  Boards carry a deleted_at marker that hides them from
// every read path, but removal itself is a hard delete that cascades to
// all descendants through foreign keys.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Board represents a board row persisted in the database.  Each board
// belongs to exactly one owner and contains an ordered set of columns.
type Board struct {
	ID        uint64       `json:"id"`
	Name      string       `json:"name"`
	OwnerID   uint64       `json:"owner_id"`
	CreatedAt time.Time    `json:"created_at"`
	DeletedAt sql.NullTime `json:"-"`
}

// ErrBoardNotFound is returned when a board does not exist or has been
// soft-deleted.
var ErrBoardNotFound = errors.New("board not found")

// BoardRepo encapsulates all database queries related to boards.
type BoardRepo struct {
	db *sql.DB
}

// NewBoardRepo constructs a BoardRepo with the provided DB handle.  This
// allows dependency injection of the database in tests and at startup.
func NewBoardRepo(db *sql.DB) *BoardRepo {
	return &BoardRepo{db: db}
}

// Create inserts a new board.  On success the board's ID and CreatedAt
// fields are populated from the stored row so callers receive a fully
// populated record.
func (r *BoardRepo) Create(ctx context.Context, b *Board) error {
	const qInsert = "INSERT INTO boards (name, owner_id) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, b.Name, b.OwnerID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	const qSelect = "SELECT name, owner_id, created_at FROM boards WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, b.ID).Scan(&b.Name, &b.OwnerID, &b.CreatedAt)
}

// GetByID fetches a live board by its ID regardless of owner.  Ownership
// is decided one layer up, by the resolver; soft-deleted boards are
// reported as not found here so they vanish from ownership resolution too.
func (r *BoardRepo) GetByID(ctx context.Context, id uint64) (*Board, error) {
	const q = `SELECT id, name, owner_id, created_at
	           FROM boards WHERE id = ? AND deleted_at IS NULL`
	var b Board
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.Name, &b.OwnerID, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListByOwner returns one page of a user's boards plus the total count
// before pagination, so callers can compute page metadata.
func (r *BoardRepo) ListByOwner(ctx context.Context, ownerID uint64, skip, limit int) ([]*Board, int64, error) {
	var total int64
	const qCount = "SELECT COUNT(*) FROM boards WHERE owner_id = ? AND deleted_at IS NULL"
	if err := r.db.QueryRowContext(ctx, qCount, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `SELECT id, name, owner_id, created_at
	           FROM boards WHERE owner_id = ? AND deleted_at IS NULL
	           ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, ownerID, limit, skip)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*Board, 0, limit)
	for rows.Next() {
		b := new(Board)
		if err := rows.Scan(&b.ID, &b.Name, &b.OwnerID, &b.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateName renames a live board.  It returns ErrBoardNotFound when no
// row is affected.
func (r *BoardRepo) UpdateName(ctx context.Context, id uint64, name string) error {
	const q = "UPDATE boards SET name = ? WHERE id = ? AND deleted_at IS NULL"
	res, err := r.db.ExecContext(ctx, q, name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBoardNotFound
	}
	return nil
}

// Delete removes a board physically.  Columns, tasks and comments beneath
// it are destroyed by the ON DELETE CASCADE rules on their foreign keys;
// this is the one removal mode boards support, deleted_at notwithstanding.
func (r *BoardRepo) Delete(ctx context.Context, id uint64) error {
	const q = "DELETE FROM boards WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBoardNotFound
	}
	return nil
}
