package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/taskflow/taskflow-api/internal/cache"
	"github.com/taskflow/taskflow-api/internal/config"
	"github.com/taskflow/taskflow-api/internal/handler"
	"github.com/taskflow/taskflow-api/internal/middleware"
	"github.com/taskflow/taskflow-api/internal/repository"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.  Unauthenticated
// operations live under /v1/auth; /v1/me and /v1/auth/logout require a valid
// access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a refresh_token body or a bearer token; the JWT
	// middleware is skipped so a client whose access token already expired
	// can still terminate its session with the refresh token alone.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	// Bearer-based logout-all lives behind the JWT middleware.
	auth.POST("/logout", a.Logout)
}

// RegisterBoardAPI wires the board/column/task/comment surface under /v1.
// Middleware order matters: JWT first so identity is always verified fresh,
// rate limiting next, and the response cache innermost so cache keys can be
// scoped to the authenticated user.
func RegisterBoardAPI(e *echo.Echo, h *handler.Handler, jwtSecret string, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))
	v1.Use(middleware.RequireRole(repository.RoleAdmin, repository.RoleUser))
	v1.Use(middleware.RateLimit(rlCfg, rdb))

	memo := func(namespace string) echo.MiddlewareFunc {
		return middleware.ResponseCache(h.Cache, namespace, cacheCfg.MaxBodyBytes)
	}

	// Boards.
	v1.POST("/boards", h.CreateBoard)
	v1.GET("/boards", h.ListBoards, memo(cache.NamespaceBoardsList))
	v1.GET("/boards/:id", h.GetBoard)
	v1.PATCH("/boards/:id", h.UpdateBoard)
	v1.DELETE("/boards/:id", h.DeleteBoard)
	v1.GET("/boards/:id/columns", h.ListBoardColumns, memo(cache.NamespaceBoardsColumns))

	// Columns.
	v1.POST("/columns", h.CreateColumn)
	v1.GET("/columns/:id", h.GetColumn)
	v1.PATCH("/columns/:id", h.UpdateColumn)
	v1.DELETE("/columns/:id", h.DeleteColumn)
	v1.GET("/columns/:id/tasks", h.ListColumnTasks)

	// Tasks.  /tasks/search is registered before /tasks/:id so the static
	// segment wins route matching.
	v1.POST("/tasks", h.CreateTask)
	v1.GET("/tasks/search", h.SearchTasks, memo(cache.NamespaceTasksSearch))
	v1.GET("/tasks/:id", h.GetTask, memo(cache.NamespaceTasksGet))
	v1.PATCH("/tasks/:id", h.UpdateTask)
	v1.DELETE("/tasks/:id", h.DeleteTask)
	v1.GET("/tasks/:id/comments", h.ListTaskComments)

	// Comments.
	v1.POST("/comments", h.CreateComment)
	v1.GET("/comments/:id", h.GetComment)
	v1.PATCH("/comments/:id", h.UpdateComment)
	v1.DELETE("/comments/:id", h.DeleteComment)
}
