package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskflow-api/internal/repository"
)

// CreateColumn handles POST /v1/columns.  The target board must resolve
// for the caller; a foreign board answers the same 404 as a missing one.
func (h *Handler) CreateColumn(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name     string `json:"name"`
		Position int    `json:"position"`
		BoardID  uint64 `json:"board_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx := c.Request().Context()
	if _, err := h.Resolver.Board(ctx, body.BoardID, userID); err != nil {
		return resolveFailed(c, err, "board not found")
	}

	column := &repository.Column{Name: name, Position: body.Position, BoardID: body.BoardID}
	if err := h.Columns.Create(ctx, column); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create column"})
	}
	h.invalidateBoardReads(c)
	return c.JSON(http.StatusCreated, column)
}

// GetColumn handles GET /v1/columns/:id.
func (h *Handler) GetColumn(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	column, err := h.Resolver.Column(c.Request().Context(), id, userID)
	if err != nil {
		return resolveFailed(c, err, "column not found")
	}
	return c.JSON(http.StatusOK, column)
}

// UpdateColumn handles PATCH /v1/columns/:id.
func (h *Handler) UpdateColumn(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name     *string `json:"name"`
		Position *int    `json:"position"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	column, err := h.Resolver.Column(ctx, id, userID)
	if err != nil {
		return resolveFailed(c, err, "column not found")
	}
	if body.Name == nil && body.Position == nil {
		return c.JSON(http.StatusOK, column)
	}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
		}
		column.Name = name
	}
	if body.Position != nil {
		column.Position = *body.Position
	}

	if err := h.Columns.Update(ctx, column); err != nil {
		return resolveFailedRepo(c, err, repository.ErrColumnNotFound, "column not found")
	}
	h.invalidateBoardReads(c)
	return c.JSON(http.StatusOK, column)
}

// DeleteColumn handles DELETE /v1/columns/:id.  Columns hard-delete and
// take their tasks with them, so the task namespaces are purged too.
func (h *Handler) DeleteColumn(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	column, err := h.Resolver.Column(ctx, id, userID)
	if err != nil {
		return resolveFailed(c, err, "column not found")
	}
	if err := h.Columns.Delete(ctx, id); err != nil {
		return resolveFailedRepo(c, err, repository.ErrColumnNotFound, "column not found")
	}
	h.invalidateBoardReads(c)
	h.invalidateTaskReads(c)
	return c.JSON(http.StatusOK, column)
}

// ListColumnTasks handles GET /v1/columns/:id/tasks with optional
// priority and assignee_id filters.  Parent resolution happens first so
// "column missing or foreign" and "column empty" stay distinguishable at
// the boundary.
func (h *Handler) ListColumnTasks(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	skip, limit := pageParams(c)

	var filter repository.TaskFilter
	if p := strings.ToUpper(strings.TrimSpace(c.QueryParam("priority"))); p != "" {
		if !repository.ValidPriority(p) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid priority"})
		}
		filter.Priority = p
	}
	if v := c.QueryParam("assignee_id"); v != "" {
		n, err := parseUint(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid assignee_id"})
		}
		filter.AssigneeID = &n
	}

	ctx := c.Request().Context()
	if _, err := h.Resolver.Column(ctx, id, userID); err != nil {
		return resolveFailed(c, err, "column not found")
	}
	items, total, err := h.Tasks.ListByColumn(ctx, id, filter, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, newPage(items, total, skip, limit))
}
