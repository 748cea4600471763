package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskflow-api/internal/cache"
	"github.com/taskflow/taskflow-api/internal/middleware"
	"github.com/taskflow/taskflow-api/internal/ownership"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/search"
)

// Handler bundles the repositories, the ownership resolver, the response
// cache and the search backend for the board/column/task/comment
// endpoints.
type Handler struct {
	Boards   *repository.BoardRepo
	Columns  *repository.ColumnRepo
	Tasks    *repository.TaskRepo
	Comments *repository.CommentRepo
	Users    *repository.UserRepo
	Resolver *ownership.Resolver
	Cache    *cache.Store
	Search   search.Searcher
}

// NewHandler constructs a Handler and panics if a dependency is missing.
// The cache store may be disabled (nil client) but the pointer itself may
// be nil too; the store's methods tolerate both.
func NewHandler(
	boards *repository.BoardRepo,
	columns *repository.ColumnRepo,
	tasks *repository.TaskRepo,
	comments *repository.CommentRepo,
	users *repository.UserRepo,
	resolver *ownership.Resolver,
	store *cache.Store,
	searcher search.Searcher,
) *Handler {
	if boards == nil || columns == nil || tasks == nil || comments == nil || users == nil || resolver == nil || searcher == nil {
		panic("nil dependency passed to NewHandler")
	}
	return &Handler{
		Boards:   boards,
		Columns:  columns,
		Tasks:    tasks,
		Comments: comments,
		Users:    users,
		Resolver: resolver,
		Cache:    store,
		Search:   searcher,
	}
}

// Page is the envelope for every list/search response.  Total is counted
// before pagination so clients can compute page metadata.
type Page struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

func newPage(items any, total int64, skip, limit int) Page {
	page := 1
	if limit > 0 {
		page = skip/limit + 1
	}
	return Page{Items: items, Total: total, Page: page, Size: limit}
}

const (
	defaultLimit = 100
	maxLimit     = 100
)

// pageParams parses skip/limit query parameters with clamping.
func pageParams(c echo.Context) (skip, limit int) {
	skip = 0
	limit = defaultLimit
	if v := c.QueryParam("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return skip, limit
}

// getUserID extracts the user_id placed in context by the JWT middleware,
// reusing the middleware's claim interpretation.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := middleware.UserID(c); ok {
		return id, nil
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return parseUint(c.Param("id"))
}

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

// resolveFailed translates a resolver outcome into the boundary response:
// absent, soft-deleted and foreign resources all answer the same 404, and
// only genuine backend failures become a 500.
func resolveFailed(c echo.Context, err error, msg string) error {
	if errors.Is(err, ownership.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}

// resolveFailedRepo is the same translation for repository sentinels, used
// when a row vanished between resolution and mutation.
func resolveFailedRepo(c echo.Context, err, sentinel error, msg string) error {
	if errors.Is(err, sentinel) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}
