// server/cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"safaipak-api-server/config"
	"safaipak-api-server/internal/api/routes"
	"safaipak-api-server/internal/auth"
	"safaipak-api-server/internal/database"
	"safaipak-api-server/internal/logger"
	"safaipak-api-server/internal/s3"
	"safaipak-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// A local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// 1. Load configuration
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Could not initialize logger: %v", err)
	}
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)

	gin.SetMode(cfg.Server.Mode)

	// 2. Pick the store
	ctx := context.Background()
	var store database.Store
	if cfg.Store.UseMemory {
		store = database.NewMemoryStore()
		zlog.Info("Using in-memory store; data is lost on restart")
	} else {
		mongoStore, err := database.NewMongoStore(ctx, cfg.Mongo, zlog)
		if err != nil {
			zlog.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		store = mongoStore
	}

	if cfg.Seed.DemoData {
		if err := database.SeedDemoProviders(ctx, store, zlog); err != nil {
			zlog.Error("Failed to seed demo providers", zap.Error(err))
		}
	}

	// 3. Optional collaborators
	deps := routes.Dependencies{
		Config: cfg,
		Store:  store,
		Log:    zlog,
		Hub:    socket.NewHub(zlog),
	}

	if cfg.Auth.Enabled {
		manager, err := auth.NewManager(cfg.Auth)
		if err != nil {
			zlog.Fatal("Failed to initialize auth", zap.Error(err))
		}
		deps.Auth = manager
	}

	if cfg.S3.Enabled() {
		uploader, err := s3.NewUploader(ctx, cfg.S3)
		if err != nil {
			zlog.Fatal("Failed to initialize S3 uploader", zap.Error(err))
		}
		deps.Uploader = uploader
	} else {
		zlog.Info("S3 is not configured; provider document uploads are disabled")
	}

	router := routes.SetupRouter(deps)

	// 4. Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Starting API server",
			zap.String("addr", srv.Addr),
			zap.String("store", store.Name()),
			zap.Bool("auth", cfg.Auth.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Failed to run server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := store.Close(shutdownCtx); err != nil {
		zlog.Error("Failed to close store", zap.Error(err))
	}
	zlog.Info("Server stopped")
}
