package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"suggest/internal/cache"
	"suggest/internal/config"
	"suggest/internal/handler"
	"suggest/internal/repository"
	"suggest/internal/service"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.Infof("Destination Suggest Service")
	log.Infof("Version: %s (built %s, commit %s)", Version, BuildTime, GitCommit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if level, err := log.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("Invalid log level %q, keeping default", cfg.Logging.Level)
	}

	gin.SetMode(cfg.Server.GinMode)

	// Index: Postgres when a DSN is configured, snapshot file otherwise.
	loader := repository.SnapshotLoader(cfg.Index)
	if cfg.Postgres.DSN != "" {
		db, err := repository.OpenPostgres(cfg.Postgres)
		if err != nil {
			log.Warnf("Postgres unavailable, falling back to snapshot index: %v", err)
		} else {
			defer db.Close()
			loader = repository.PostgresLoader(db, cfg.Postgres.Table)
			log.Info("Connected to Postgres destinations store")
		}
	}

	index, err := repository.NewIndexStore(loader)
	if err != nil {
		log.Warnf("Initial index load failed, serving with empty index: %v", err)
	} else {
		log.Infof("Index loaded: %d records", index.Len())
	}

	ranker := service.LoadRanker(&cfg.Model, &cfg.Rank)
	defer ranker.Close()

	suggestCache := cache.Disabled()
	if cfg.Cache.Enabled {
		c, err := cache.Open(cfg.Cache.Dir, cfg.Cache.TTL)
		if err != nil {
			log.Warnf("Cache unavailable, serving uncached: %v", err)
		} else {
			suggestCache = c
			defer suggestCache.Close()
			log.Infof("Cache open at %q (TTL %s)", cfg.Cache.Dir, cfg.Cache.TTL)
		}
	}

	engine := service.NewElasticClient(&cfg.Elastic)
	if engine.IsEnabled() {
		log.Infof("Remote search engine enabled: %s/%s", cfg.Elastic.URL, cfg.Elastic.Index)
	}

	retriever := service.NewRetriever(index, engine, cfg.Search.MaxCandidates)
	suggestService := service.NewSuggestService(retriever, ranker, suggestCache, cfg.Cache.TTL, cfg.Search.MaxResults)

	suggestHandler := handler.NewSuggestHandler(suggestService)
	cacheHandler := handler.NewCacheHandler(suggestCache)
	adminHandler := handler.NewAdminHandler(index, ranker, suggestCache)

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", adminHandler.Health)
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	api := router.Group("/api")
	{
		api.GET("/suggest", suggestHandler.Suggest)
		api.GET("/cache/stats", cacheHandler.Stats)
		api.POST("/cache/invalidate", cacheHandler.Invalidate)
		api.POST("/index/reload", adminHandler.ReloadIndex)
	}

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		log.Infof("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Forced shutdown: %v", err)
	}
	log.Info("Server stopped")
}
