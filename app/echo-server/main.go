package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resaleMarket/app/echo-server/router"
	"resaleMarket/business/category"
	"resaleMarket/business/feed"
	"resaleMarket/internal/middleware"
	psqlRepo "resaleMarket/internal/repository/postgres"
	redisRepo "resaleMarket/internal/repository/redis"
	"resaleMarket/internal/repository/rpc"
	"resaleMarket/internal/rest"
	"resaleMarket/pkg/config"
	"resaleMarket/pkg/database"
	redisClient "resaleMarket/pkg/database/redis"
	"resaleMarket/pkg/logger"
	"resaleMarket/pkg/metrics"
	"resaleMarket/pkg/tracing"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting resale feed API", "version", cfg.App.Version, "env", cfg.App.Environment)

	tp, err := tracing.NewProvider(cfg)
	if err != nil {
		logger.Fatal("Failed to init tracing", "error", err)
	}

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	metrics.Init()

	// Init redis only when the shared cache is selected
	var rdb *goredis.Client
	if cfg.Feed.CacheBackend == "redis" {
		rdb, err = redisClient.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, using in-process feed cache", "error", err)
		}
	}

	// Init repo
	categoryRepo := psqlRepo.NewCategoryRepository(db)
	listingRepo := psqlRepo.NewListingRepository(db)

	var oracle feed.RankingOracle
	switch cfg.Feed.OracleBackend {
	case "rpc":
		oracle = rpc.NewFeedOracleClient(rpc.FeedOracleConfig{
			BaseURL: cfg.Feed.RPCURL,
			APIKey:  cfg.Feed.RPCKey,
			Timeout: cfg.Feed.OracleTimeout,
		})
	default:
		oracle = psqlRepo.NewFeedOracleRepository(db)
	}
	logger.Info("Ranking oracle selected", "backend", cfg.Feed.OracleBackend)

	var cache feed.ResponseCache
	if rdb != nil {
		cache = redisRepo.NewFeedCacheRepository(rdb, cfg.Feed.CacheTTL)
	} else {
		cache = feed.NewMemoryCache(cfg.Feed.CacheTTL, time.Now)
	}

	// Init service
	feedCfg := feed.DefaultConfig()
	feedCfg.CacheTTL = cfg.Feed.CacheTTL
	feedCfg.MaxAttempts = cfg.Feed.MaxAttempts
	feedCfg.BackoffBase = cfg.Feed.BackoffBase
	feedCfg.OracleTimeout = cfg.Feed.OracleTimeout
	feedCfg.FallbackTimeout = cfg.Feed.FallbackTimeout

	feedService := feed.NewFeedService(oracle, listingRepo, cache, feedCfg)
	categoryService := category.NewCategoryService(categoryRepo)

	defaultMode, _ := feed.ParseMode(cfg.Feed.DefaultMode)

	// Init handler
	feedHandler := rest.NewFeedHandler(feedService, defaultMode, cfg.Feed.CacheTTL, cfg.Server.RequestTimeout)
	categoryHandler := rest.NewCategoryHandler(categoryService, cfg.Server.RequestTimeout)

	checks := map[string]rest.Pinger{
		"postgres": rest.PingFunc(func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if rdb != nil {
		checks["redis"] = rest.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	healthHandler := rest.NewHealthHandler(checks)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  cfg.Server.AllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, rest.HeaderClientMode, echo.HeaderXRequestID},
		ExposeHeaders: []string{echo.HeaderXRequestID},
	}))

	// Setup routes
	router.SetOpsRoutes(e, healthHandler, echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	router.SetFeedRoutes(api, feedHandler, cfg.JWT.SecretKey)
	router.SetupCategoryRoutes(api, categoryHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if err := redisClient.CloseRedisClient(rdb); err != nil {
		logger.Error("Redis close error", "error", err)
	}

	if err := tp.Shutdown(ctx); err != nil {
		logger.Error("Tracer shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
