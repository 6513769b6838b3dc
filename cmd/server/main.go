package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"todo_api/internal/api"
	"todo_api/internal/api/middleware"
	"todo_api/internal/app/service"
	"todo_api/internal/common/security"
	"todo_api/internal/domain/repository"
	"todo_api/internal/platform/config"
	"todo_api/internal/platform/database"
	"todo_api/internal/platform/metrics"
	"todo_api/internal/platform/tokenstore"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg := config.Load()
	logger.Info("configuration loaded")

	// 2. Initialize JWT
	tokens := security.NewTokenIssuer(cfg.JWTKey, cfg.JWTExp)

	// 3. Initialize Database
	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		logger.Error("database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database connected")

	if err := database.RunMigrations(cfg.DBURL); err != nil {
		logger.Error("migrations failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// 4. Initialize Redis (revoked token store)
	redisClient, err := tokenstore.NewClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("redis connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer redisClient.Close()
	revoked := tokenstore.NewRedisStore(redisClient)
	logger.Info("redis connected")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	taskRepo := repository.NewPgTaskRepository(db)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo, tokens, revoked, cfg.BcryptCost)
	taskService := service.NewTaskService(taskRepo)

	// 7. Initialize Metrics & Rate Limiter
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	rlConfig := middleware.DefaultRateLimiterConfig()
	rlConfig.Rate = rate.Limit(cfg.RateLimitRPS)
	rlConfig.Burst = cfg.RateLimitBurst
	rateLimiter := middleware.NewRateLimiter(rlConfig)
	defer rateLimiter.Stop()

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(logger, tokens, revoked, rateLimiter, collector, registry, cfg.CORSAllowedOrigins, authService, taskService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", slog.String("port", cfg.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-stop // Wait for interrupt signal

	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
