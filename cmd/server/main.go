package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mwhitman/propedge/internal/api"
	"github.com/mwhitman/propedge/internal/api/middleware"
	"github.com/mwhitman/propedge/internal/park"
	"github.com/mwhitman/propedge/internal/pipeline"
	"github.com/mwhitman/propedge/internal/providers"
	"github.com/mwhitman/propedge/internal/services"
	"github.com/mwhitman/propedge/internal/snapshot"
	"github.com/mwhitman/propedge/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logrus.StandardLogger()

	// Connect to Redis when configured; the pipeline runs without it
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logrus.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logrus.Warnf("Redis unreachable, running without hot cache: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// Snapshot store
	store, err := snapshot.NewStore(cfg.DataDir, logger)
	if err != nil {
		logrus.Fatalf("Failed to open snapshot store: %v", err)
	}

	// Providers and pipeline
	cacheService := services.NewCacheService(redisClient, logger)
	espnClient := providers.NewESPNClient(cfg, cacheService, logger)
	savantClient := providers.NewSavantClient(cfg, cacheService, logger)
	oddsClient := providers.NewOddsAPIClient(cfg, cacheService, logger)
	weatherClient := park.NewWeatherClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey, logger)

	orchestrator := pipeline.NewOrchestrator(espnClient, savantClient, oddsClient, weatherClient, store, cfg, logger)

	// Scheduler drives the daily cycle
	scheduler := services.NewScheduler(orchestrator, cfg.CronSpec, cfg.CycleTimeout, logger)
	if err := scheduler.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, store, scheduler)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
