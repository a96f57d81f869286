package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"xmute/mutehub/internal/config"
	"xmute/mutehub/internal/handler"
	"xmute/mutehub/internal/model"
	"xmute/mutehub/internal/queue"
	"xmute/mutehub/internal/repository"
	"xmute/mutehub/internal/service"
	"xmute/mutehub/internal/upstream"
	jwtpkg "xmute/mutehub/pkg/jwt"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	var logger *zap.Logger
	if cfg.Log.Format == "json" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	// 3. Connect to PostgreSQL
	db, err := config.NewPostgresDB(cfg.Database.Postgres)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}

	// 4. Auto-migrate if enabled
	if cfg.Database.Postgres.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			logger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		logger.Info("database migration completed")
	}

	// 5. Initialize state store (Redis or in-memory)
	var stateStore repository.StateStore
	switch cfg.State.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		stateStore = repository.NewRedisStateStore(redisClient)
		logger.Info("using Redis state store")
	case "memory":
		stateStore = repository.NewMemoryStateStore()
		logger.Info("using in-memory state store")
	default:
		logger.Fatal("unknown state backend", zap.String("backend", cfg.State.Backend))
	}

	// 6. Initialize repositories
	mutedRepo := repository.NewPGMutedUserRepository(db)
	whitelistRepo := repository.NewPGWhitelistRepository(db)

	// 7. Platform client and request queue
	apiClient := upstream.NewClient(upstream.Config{
		BaseURL:     cfg.Upstream.BaseURL,
		BearerToken: cfg.Upstream.BearerToken,
		CSRFToken:   cfg.Upstream.CSRFToken,
		AuthCookie:  cfg.Upstream.AuthCookie,
		Timeout:     cfg.Upstream.Timeout,
	}, logger.Named("upstream"))

	requestQueue := queue.New(cfg.Pipeline.QueueSize, cfg.Pipeline.QueueMaxAge, logger.Named("queue"))
	defer requestQueue.Stop()

	// 8. Initialize services
	jwtManager := jwtpkg.NewManager(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL)
	authService := service.NewAuthService(cfg.Auth.AdminSecretHash, jwtManager)
	settingsService := service.NewSettingsService(stateStore)
	blacklistService := service.NewBlacklistService(stateStore)
	whitelistService := service.NewWhitelistService(whitelistRepo)
	dispositionService := service.NewDispositionService(
		apiClient, requestQueue, mutedRepo, whitelistRepo,
		settingsService, blacklistService, logger.Named("disposition"),
	)
	unmuteService := service.NewUnmuteService(apiClient, mutedRepo, cfg.Pipeline.UnmuteDelay, logger.Named("unmute"))
	unmuteManager := service.NewUnmuteManager(unmuteService, logger.Named("unmute"))
	statsService := service.NewStatsService(mutedRepo, whitelistRepo)
	exportService := service.NewExportService(mutedRepo)

	// 9. Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	dispositionHandler := handler.NewDispositionHandler(dispositionService)
	unmuteHandler := handler.NewUnmuteHandler(unmuteManager)
	mutedUsersHandler := handler.NewMutedUsersHandler(mutedRepo, exportService)
	whitelistHandler := handler.NewWhitelistHandler(whitelistService)
	settingsHandler := handler.NewSettingsHandler(settingsService, blacklistService)
	statsHandler := handler.NewStatsHandler(statsService)

	// 10. Setup router
	router := handler.SetupRouter(cfg, logger, jwtManager,
		authHandler, dispositionHandler, unmuteHandler,
		mutedUsersHandler, whitelistHandler, settingsHandler, statsHandler)

	// 11. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 12. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}
