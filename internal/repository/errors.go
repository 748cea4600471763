// Package repository contains data access logic separated from HTTP
// handlers.  Each entity gets its own repository around the shared sql.DB
// pool, and lookups that find nothing report it through per-entity
// sentinel errors (ErrBoardNotFound, ErrTaskNotFound, ...) rather than by
// leaking sql.ErrNoRows to callers.  Soft-delete-aware repositories
// (boards, tasks, comments) exclude rows with a non-NULL deleted_at from
// every read; hard-delete repositories (boards as a removal mode, columns)
// issue real DELETEs and rely on foreign-key cascades for descendants.
package repository

import "strings"

// isDuplicate reports whether err is the MySQL duplicate-key violation
// (error 1062), used to translate unique-constraint failures on insert.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
