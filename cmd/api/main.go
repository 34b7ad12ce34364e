package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/srgjo27/hotel_frontdesk/internal/adapter/events"
	"github.com/srgjo27/hotel_frontdesk/internal/adapter/handler"
	"github.com/srgjo27/hotel_frontdesk/internal/adapter/repository/memory"
	"github.com/srgjo27/hotel_frontdesk/internal/adapter/repository/postgres"
	"github.com/srgjo27/hotel_frontdesk/internal/adapter/repository/redisstore"
	"github.com/srgjo27/hotel_frontdesk/internal/config"
	"github.com/srgjo27/hotel_frontdesk/internal/core/ports"
	"github.com/srgjo27/hotel_frontdesk/internal/core/services"
	"github.com/srgjo27/hotel_frontdesk/internal/platform/database"
	"github.com/srgjo27/hotel_frontdesk/internal/platform/logger"
	"github.com/srgjo27/hotel_frontdesk/internal/platform/metrics"
)

func main() {
	cfg, err := config.Load(os.Getenv("FRONTDESK_CONFIG"))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(&cfg.Logger)
	defer logger.Sync()

	log.Info("starting front desk",
		zap.String("name", cfg.Server.Name),
		zap.String("mode", cfg.Server.Mode),
		zap.String("persistence", cfg.Persistence.Driver),
		zap.String("inventory", cfg.Inventory.Source),
	)

	ctx := context.Background()

	var db *sql.DB
	if cfg.NeedsDatabase() {
		db, err = database.NewPostgresDB(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal("failed to connect to database after retries", zap.Error(err))
		}
		defer db.Close()

		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Fatal("failed to prepare schema", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.NeedsRedis() {
		log.Info("connecting to redis", zap.String("addr", cfg.Redis.Addr()))
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		log.Info("redis connected")
	}

	var inventory ports.RoomInventory = memory.NewInventory(memory.DemoRooms())
	if cfg.Inventory.Source == "postgres" {
		inventory = postgres.NewRoomRepository(db)
	}

	var snapshots ports.SnapshotRepository
	switch cfg.Persistence.Driver {
	case "postgres":
		snapshots = postgres.NewSnapshotRepository(db)
	case "redis":
		snapshots = redisstore.NewSnapshotStore(redisClient, cfg.Redis.SnapshotKey)
	default:
		snapshots = memory.NewSnapshotStore()
	}

	var publisher ports.EventPublisher
	if cfg.Redis.Enabled {
		publisher = events.NewRedisPublisher(redisClient, cfg.Redis.Channel)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	frontDesk, err := services.NewFrontDeskService(ctx, inventory, publisher, logger.Named("frontdesk"), m)
	if err != nil {
		log.Fatal("failed to load room inventory", zap.Error(err))
	}
	if err := frontDesk.RestoreFrom(ctx, snapshots); err != nil {
		log.Fatal("failed to restore front desk state", zap.Error(err))
	}

	workerCtx, stopWorker := context.WithCancel(ctx)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		frontDesk.RunSnapshotLoop(workerCtx, snapshots, cfg.Persistence.Interval())
	}()

	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handler.NewRouter(handler.NewFrontDeskHandler(frontDesk), handler.RouterConfig{
		Auth:    cfg.Auth,
		CORS:    cfg.CORS,
		Metrics: cfg.Metrics,
	}, logger.Named("http"), m)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server startup failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	// The worker saves one last snapshot once no request can change state.
	stopWorker()
	<-workerDone

	log.Info("server exiting")
}
