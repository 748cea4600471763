// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// Task event types.
const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
)

// TaskEvent is published when a task is created, updated or soft-deleted.
// It carries enough information for downstream consumers (notifications,
// analytics) to act without querying the primary database.
type TaskEvent struct {
	EventID    string  `json:"event_id"`
	Type       string  `json:"type"`
	TaskID     uint64  `json:"task_id"`
	ColumnID   uint64  `json:"column_id"`
	OwnerID    uint64  `json:"owner_id"`
	Title      string  `json:"title"`
	Priority   string  `json:"priority"`
	AssigneeID *uint64 `json:"assignee_id,omitempty"`
	OccurredAt string  `json:"occurred_at"`
}

// NewTaskEvent stamps a fresh event with a unique id and the current time.
func NewTaskEvent(typ string, taskID, columnID, ownerID uint64, title, priority string, assigneeID *uint64) TaskEvent {
	return TaskEvent{
		EventID:    uuid.New().String(),
		Type:       typ,
		TaskID:     taskID,
		ColumnID:   columnID,
		OwnerID:    ownerID,
		Title:      title,
		Priority:   priority,
		AssigneeID: assigneeID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
