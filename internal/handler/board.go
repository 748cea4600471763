package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskflow-api/internal/cache"
	"github.com/taskflow/taskflow-api/internal/repository"
)

// invalidateBoardReads purges the board read namespaces after any board or
// column mutation.  Synchronous by design: it runs only after the storage
// commit, and a failure merely leaves entries to age out at the TTL.
func (h *Handler) invalidateBoardReads(c echo.Context) {
	h.Cache.ClearNamespaces(c.Request().Context(),
		cache.NamespaceBoardsList, cache.NamespaceBoardsColumns)
}

// CreateBoard handles POST /v1/boards.
func (h *Handler) CreateBoard(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	board := &repository.Board{Name: name, OwnerID: userID}
	if err := h.Boards.Create(c.Request().Context(), board); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create board"})
	}
	h.invalidateBoardReads(c)
	return c.JSON(http.StatusCreated, board)
}

// ListBoards handles GET /v1/boards.  The route is memoized in the
// boards:list namespace, keyed per user and query string.
func (h *Handler) ListBoards(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	skip, limit := pageParams(c)

	items, total, err := h.Boards.ListByOwner(c.Request().Context(), userID, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, newPage(items, total, skip, limit))
}

// GetBoard handles GET /v1/boards/:id.
func (h *Handler) GetBoard(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	board, err := h.Resolver.Board(c.Request().Context(), id, userID)
	if err != nil {
		return resolveFailed(c, err, "board not found")
	}
	return c.JSON(http.StatusOK, board)
}

// UpdateBoard handles PATCH /v1/boards/:id.
func (h *Handler) UpdateBoard(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name *string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	board, err := h.Resolver.Board(ctx, id, userID)
	if err != nil {
		return resolveFailed(c, err, "board not found")
	}
	if body.Name == nil {
		// Nothing to change.
		return c.JSON(http.StatusOK, board)
	}
	name := strings.TrimSpace(*body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	if err := h.Boards.UpdateName(ctx, id, name); err != nil {
		return resolveFailedRepo(c, err, repository.ErrBoardNotFound, "board not found")
	}
	board.Name = name
	h.invalidateBoardReads(c)
	return c.JSON(http.StatusOK, board)
}

// DeleteBoard handles DELETE /v1/boards/:id.  Boards are hard-deleted and
// the cascade destroys every descendant, so the task namespaces get
// purged along with the board ones.
func (h *Handler) DeleteBoard(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	board, err := h.Resolver.Board(ctx, id, userID)
	if err != nil {
		return resolveFailed(c, err, "board not found")
	}
	if err := h.Boards.Delete(ctx, id); err != nil {
		return resolveFailedRepo(c, err, repository.ErrBoardNotFound, "board not found")
	}
	h.invalidateBoardReads(c)
	h.invalidateTaskReads(c)
	return c.JSON(http.StatusOK, board)
}

// ListBoardColumns handles GET /v1/boards/:id/columns, memoized in the
// boards:columns namespace.  The parent board is resolved first so a
// missing or foreign board answers 404 while an existing board with no
// columns answers an empty page.
func (h *Handler) ListBoardColumns(c echo.Context) error {
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
	if _, err := h.Resolver.Board(ctx, id, userID); err != nil {
		return resolveFailed(c, err, "board not found")
	}
	items, total, err := h.Columns.ListByBoard(ctx, id, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, newPage(items, total, skip, limit))
}
