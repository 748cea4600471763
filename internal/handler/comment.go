package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskflow-api/internal/repository"
)

// CreateComment handles POST /v1/comments.  Any user who can see the
// parent task may comment on it.
func (h *Handler) CreateComment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Text   string `json:"text"`
		TaskID uint64 `json:"task_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}

	ctx := c.Request().Context()
	if _, err := h.Resolver.Task(ctx, body.TaskID, userID); err != nil {
		return resolveFailed(c, err, "task not found")
	}

	comment := &repository.Comment{
		Text:     text,
		TaskID:   body.TaskID,
		AuthorID: userID,
	}
	if err := h.Comments.Create(ctx, comment); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create comment"})
	}
	return c.JSON(http.StatusCreated, comment)
}

// GetComment handles GET /v1/comments/:id.  Readable by the comment's
// author or by the owner of the board the comment lives under.
func (h *Handler) GetComment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	comment, err := h.Resolver.Comment(c.Request().Context(), id, userID)
	if err != nil {
		return resolveFailed(c, err, "comment not found")
	}
	return c.JSON(http.StatusOK, comment)
}

// UpdateComment handles PATCH /v1/comments/:id.  Only the author may
// edit; anyone else sees a 404, owner of the surrounding board included.
func (h *Handler) UpdateComment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}

	ctx := c.Request().Context()
	comment, err := h.Comments.GetByID(ctx, id)
	if err != nil {
		return resolveFailedRepo(c, err, repository.ErrCommentNotFound, "comment not found")
	}
	if comment.AuthorID != userID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
	}
	if err := h.Comments.UpdateText(ctx, id, text); err != nil {
		return resolveFailedRepo(c, err, repository.ErrCommentNotFound, "comment not found")
	}
	comment.Text = text
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment handles DELETE /v1/comments/:id.  Author-only, same as
// update.  Comments soft-delete.
func (h *Handler) DeleteComment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	comment, err := h.Comments.GetByID(ctx, id)
	if err != nil {
		return resolveFailedRepo(c, err, repository.ErrCommentNotFound, "comment not found")
	}
	if comment.AuthorID != userID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
	}
	if err := h.Comments.SoftDelete(ctx, id); err != nil {
		return resolveFailedRepo(c, err, repository.ErrCommentNotFound, "comment not found")
	}
	return c.JSON(http.StatusOK, comment)
}
