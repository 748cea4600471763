package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"

	"github.com/taskflow/taskflow-api/internal/cache"
	"github.com/taskflow/taskflow-api/internal/config"
	"github.com/taskflow/taskflow-api/internal/database"
	"github.com/taskflow/taskflow-api/internal/handler"
	"github.com/taskflow/taskflow-api/internal/logging"
	"github.com/taskflow/taskflow-api/internal/ownership"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/router"
	"github.com/taskflow/taskflow-api/internal/search"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env wins
	logging.Init()

	cfg := config.Load()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis is optional: a nil client disables the response cache and makes
	// the rate limiter fail open.
	rdb := config.NewRedisClient()
	var store *cache.Store
	if cacheCfg.Enabled {
		store = cache.New(rdb, cacheCfg.TTL)
	} else {
		store = cache.New(nil, cacheCfg.TTL)
	}

	boards := repository.NewBoardRepo(db)
	columns := repository.NewColumnRepo(db)
	tasks := repository.NewTaskRepo(db)
	comments := repository.NewCommentRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	resolver := ownership.NewResolver(boards, columns, tasks, comments)

	var searcher search.Searcher
	switch cfg.SearchBackend {
	case "like":
		searcher = search.NewLikeSearcher(db)
	default:
		searcher = search.NewFulltextSearcher(db)
	}
	logging.Logger.WithField("backend", cfg.SearchBackend).Info("search backend selected")

	h := handler.NewHandler(boards, columns, tasks, comments, users, resolver, store, searcher)
	a := handler.NewAuthHandler(cfg, users, tokens)

	e := echo.New()
	e.HideBanner = true
	e.Use(emw.Recover())
	router.RegisterRoutes(e)
	router.RegisterAuth(e, a, cfg.JWTSecret)
	router.RegisterBoardAPI(e, h, cfg.JWTSecret, cacheCfg, rlCfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
