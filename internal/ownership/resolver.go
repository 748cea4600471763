// Package ownership decides whether an authenticated user may act on a
// resource.  Every resource inherits the decision from its ancestry:
// task -> column -> board -> owning user.  The resolver deliberately
// collapses "does not exist" and "exists but is not yours" into the one
// ErrNotFound sentinel so that callers cannot leak existence facts about
// other users' resources, no matter which operation was attempted.
package ownership

import (
	"context"
	"errors"

	"github.com/taskflow/taskflow-api/internal/repository"
)

// ErrNotFound is the single outcome for absent, soft-deleted and foreign
// resources alike.
var ErrNotFound = errors.New("not found")

// The resolver only ever fetches by id, so it depends on the narrowest
// possible slice of each repository.
type boardFetcher interface {
	GetByID(ctx context.Context, id uint64) (*repository.Board, error)
}
type columnFetcher interface {
	GetByID(ctx context.Context, id uint64) (*repository.Column, error)
}
type taskFetcher interface {
	GetByID(ctx context.Context, id uint64) (*repository.Task, error)
}
type commentFetcher interface {
	GetByID(ctx context.Context, id uint64) (*repository.Comment, error)
}

// Resolver walks ancestry chains bottom-up.  Ownership is checked once,
// at the board (the chain's root); intermediate levels only need to
// exist.
type Resolver struct {
	boards   boardFetcher
	columns  columnFetcher
	tasks    taskFetcher
	comments commentFetcher
}

// NewResolver wires the resolver to its stores.  The concrete
// repositories satisfy the fetcher interfaces.
func NewResolver(boards boardFetcher, columns columnFetcher, tasks taskFetcher, comments commentFetcher) *Resolver {
	return &Resolver{boards: boards, columns: columns, tasks: tasks, comments: comments}
}

// hide maps a repository miss onto ErrNotFound and lets real failures
// (broken connection, bad SQL) pass through untouched.
func hide(err error, miss error) error {
	if errors.Is(err, miss) {
		return ErrNotFound
	}
	return err
}

// Board returns the board when it exists and belongs to userID.
func (r *Resolver) Board(ctx context.Context, boardID, userID uint64) (*repository.Board, error) {
	b, err := r.boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, hide(err, repository.ErrBoardNotFound)
	}
	if b.OwnerID != userID {
		return nil, ErrNotFound
	}
	return b, nil
}

// Column returns the column when its board resolves for userID.
func (r *Resolver) Column(ctx context.Context, columnID, userID uint64) (*repository.Column, error) {
	c, err := r.columns.GetByID(ctx, columnID)
	if err != nil {
		return nil, hide(err, repository.ErrColumnNotFound)
	}
	if _, err := r.Board(ctx, c.BoardID, userID); err != nil {
		return nil, err
	}
	return c, nil
}

// Task returns the task when its column (and therefore board) resolves
// for userID.
func (r *Resolver) Task(ctx context.Context, taskID, userID uint64) (*repository.Task, error) {
	t, err := r.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, hide(err, repository.ErrTaskNotFound)
	}
	if _, err := r.Column(ctx, t.ColumnID, userID); err != nil {
		return nil, err
	}
	return t, nil
}

// Comment is the one union case: the author may act on their own comment
// even on someone else's board, and the board owner may act on any
// comment under their chain.
func (r *Resolver) Comment(ctx context.Context, commentID, userID uint64) (*repository.Comment, error) {
	c, err := r.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, hide(err, repository.ErrCommentNotFound)
	}
	if c.AuthorID == userID {
		return c, nil
	}
	if _, err := r.Task(ctx, c.TaskID, userID); err != nil {
		return nil, err
	}
	return c, nil
}
