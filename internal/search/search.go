// Package search finds tasks by free text for one owner.  Two backends
// implement the same contract: a MySQL FULLTEXT boolean-mode query over
// the precomputed search_vector column, and a substring LIKE scan over
// title/description for installations without the index.  The backend is
// chosen once, at construction, never by inspecting the storage engine at
// query time.
//
// The two backends intentionally keep their native matching semantics for
// multi-word, partial or punctuated input (AND over whole tokens vs. one
// literal substring); everything else — the ownership join, the ordering,
// the pagination contract — is identical.
package search

import (
	"context"

	"github.com/taskflow/taskflow-api/internal/repository"
)

// Query describes one search request.  OwnerID scopes results to tasks
// whose transitive board owner is that user.
type Query struct {
	OwnerID uint64
	Text    string
	Skip    int
	Limit   int
}

// Searcher executes a task search and returns one page of matches, newest
// first (id descending), plus the total match count before pagination.
type Searcher interface {
	SearchTasks(ctx context.Context, q Query) ([]*repository.Task, int64, error)
}

// ownerJoin is the ancestry filter both backends share.  It must stay in
// lockstep with the ownership resolver: soft-deleted tasks and boards do
// not exist, and only the board owner sees anything at all.
const ownerJoin = `
	FROM tasks t
	JOIN columns c ON c.id = t.column_id
	JOIN boards  b ON b.id = c.board_id
	WHERE b.owner_id = ?
	  AND b.deleted_at IS NULL
	  AND t.deleted_at IS NULL`

const taskSelect = `SELECT t.id, t.title, t.description, t.priority, t.position,
	t.column_id, t.assignee_id, t.created_at, t.updated_at`

func clampPage(q *Query) {
	if q.Limit <= 0 {
		q.Limit = 100
	}
	if q.Skip < 0 {
		q.Skip = 0
	}
}
