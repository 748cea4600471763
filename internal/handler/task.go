package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskflow-api/internal/cache"
	"github.com/taskflow/taskflow-api/internal/queue"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/search"
)

// invalidateTaskReads purges the task read namespaces.  Called after
// every mutation that touches the task family, once the storage commit
// has happened.
func (h *Handler) invalidateTaskReads(c echo.Context) {
	h.Cache.ClearNamespaces(c.Request().Context(),
		cache.NamespaceTasksGet, cache.NamespaceTasksSearch)
}

// publishTaskEvent emits a lifecycle event for downstream consumers.
// Best-effort: the error is already logged by the publisher.
func (h *Handler) publishTaskEvent(c echo.Context, typ string, t *repository.Task, ownerID uint64) {
	_ = queue.PublishTaskEvent(c.Request().Context(),
		queue.NewTaskEvent(typ, t.ID, t.ColumnID, ownerID, t.Title, t.Priority, t.AssigneeID))
}

// SearchTasks handles GET /v1/tasks/search?q=, memoized in the
// tasks:search namespace.  A blank or whitespace-only query returns an
// empty page without touching the search backend.
func (h *Handler) SearchTasks(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	skip, limit := pageParams(c)

	q := c.QueryParam("q")
	if strings.TrimSpace(q) == "" {
		return c.JSON(http.StatusOK, newPage([]*repository.Task{}, 0, skip, limit))
	}

	items, total, err := h.Search.SearchTasks(c.Request().Context(), search.Query{
		OwnerID: userID,
		Text:    q,
		Skip:    skip,
		Limit:   limit,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	if items == nil {
		items = []*repository.Task{}
	}
	return c.JSON(http.StatusOK, newPage(items, total, skip, limit))
}

// CreateTask handles POST /v1/tasks.  The target column must resolve for
// the caller before anything is written.
func (h *Handler) CreateTask(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
		Priority    string  `json:"priority"`
		Position    int     `json:"position"`
		ColumnID    uint64  `json:"column_id"`
		AssigneeID  *uint64 `json:"assignee_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	priority := strings.ToUpper(strings.TrimSpace(body.Priority))
	if priority == "" {
		priority = repository.PriorityMedium
	}
	if !repository.ValidPriority(priority) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid priority"})
	}

	ctx := c.Request().Context()
	if _, err := h.Resolver.Column(ctx, body.ColumnID, userID); err != nil {
		return resolveFailed(c, err, "column not found")
	}
	if body.AssigneeID != nil {
		if _, err := h.Users.GetByID(ctx, *body.AssigneeID); err != nil {
			return resolveFailedRepo(c, err, repository.ErrUserNotFound, "assignee not found")
		}
	}

	task := &repository.Task{
		Title:       title,
		Description: body.Description,
		Priority:    priority,
		Position:    body.Position,
		ColumnID:    body.ColumnID,
		AssigneeID:  body.AssigneeID,
	}
	if err := h.Tasks.Create(ctx, task); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create task"})
	}
	h.invalidateTaskReads(c)
	h.publishTaskEvent(c, queue.TaskCreated, task, userID)
	return c.JSON(http.StatusCreated, task)
}

// GetTask handles GET /v1/tasks/:id, memoized in the tasks:get
// namespace.
func (h *Handler) GetTask(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	task, err := h.Resolver.Task(c.Request().Context(), id, userID)
	if err != nil {
		return resolveFailed(c, err, "task not found")
	}
	return c.JSON(http.StatusOK, task)
}

// UpdateTask handles PATCH /v1/tasks/:id.  Re-parenting (a column_id
// change) requires the target column to resolve for the caller as well;
// a move into someone else's column fails exactly like a move into a
// nonexistent one.
func (h *Handler) UpdateTask(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Priority    *string `json:"priority"`
		Position    *int    `json:"position"`
		ColumnID    *uint64 `json:"column_id"`
		AssigneeID  *uint64 `json:"assignee_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	task, err := h.Resolver.Task(ctx, id, userID)
	if err != nil {
		return resolveFailed(c, err, "task not found")
	}

	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
		}
		task.Title = title
	}
	if body.Description != nil {
		task.Description = body.Description
	}
	if body.Priority != nil {
		priority := strings.ToUpper(strings.TrimSpace(*body.Priority))
		if !repository.ValidPriority(priority) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid priority"})
		}
		task.Priority = priority
	}
	if body.Position != nil {
		task.Position = *body.Position
	}
	if body.ColumnID != nil && *body.ColumnID != task.ColumnID {
		if _, err := h.Resolver.Column(ctx, *body.ColumnID, userID); err != nil {
			return resolveFailed(c, err, "column not found")
		}
		task.ColumnID = *body.ColumnID
	}
	if body.AssigneeID != nil {
		if _, err := h.Users.GetByID(ctx, *body.AssigneeID); err != nil {
			return resolveFailedRepo(c, err, repository.ErrUserNotFound, "assignee not found")
		}
		task.AssigneeID = body.AssigneeID
	}

	if err := h.Tasks.Update(ctx, task); err != nil {
		return resolveFailedRepo(c, err, repository.ErrTaskNotFound, "task not found")
	}
	h.invalidateTaskReads(c)
	h.publishTaskEvent(c, queue.TaskUpdated, task, userID)
	return c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /v1/tasks/:id.  Tasks soft-delete: the row
// stays for audit but disappears from every read path.
func (h *Handler) DeleteTask(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	task, err := h.Resolver.Task(ctx, id, userID)
	if err != nil {
		return resolveFailed(c, err, "task not found")
	}
	if err := h.Tasks.SoftDelete(ctx, id); err != nil {
		return resolveFailedRepo(c, err, repository.ErrTaskNotFound, "task not found")
	}
	h.invalidateTaskReads(c)
	h.publishTaskEvent(c, queue.TaskDeleted, task, userID)
	return c.JSON(http.StatusOK, task)
}

// ListTaskComments handles GET /v1/tasks/:id/comments.
func (h *Handler) ListTaskComments(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	skip, limit := pageParams(c)

	ctx := c.Request().Context()
	if _, err := h.Resolver.Task(ctx, id, userID); err != nil {
		return resolveFailed(c, err, "task not found")
	}
	items, total, err := h.Comments.ListByTask(ctx, id, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, newPage(items, total, skip, limit))
}
