package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bloodbank/lisreceiver/internal/adapter/handler"
	"github.com/bloodbank/lisreceiver/internal/adapter/storage"
	"github.com/bloodbank/lisreceiver/internal/audit"
	"github.com/bloodbank/lisreceiver/internal/config"
	"github.com/bloodbank/lisreceiver/internal/core/service"
	"github.com/bloodbank/lisreceiver/internal/logging"
	"github.com/bloodbank/lisreceiver/internal/port"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "lisreceiver")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize document store", zap.Error(err))
	}
	defer closeStore()

	auditor, err := audit.NewLogger(cfg.AuditDir, logger)
	if err != nil {
		logger.Fatal("failed to initialize audit logger", zap.Error(err))
	}

	svc := service.NewService(store, auditor, logger).WithStoreTimeout(cfg.StoreTimeout)
	httpHandler := handler.NewHTTPHandler(svc, logger)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpHandler.Routes(),
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	logger.Info("HTTP server stopped")
}

// buildStore wires the configured document store backend and returns a
// cleanup func for its connections.
func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.DocumentStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}

		store := storage.NewMySQLStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("connected to mysql")
		return store, func() { db.Close() }, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, err
		}
		logger.Info("connected to redis")
		return storage.NewRedisStore(rdb), func() { rdb.Close() }, nil

	default:
		if err := os.MkdirAll(filepath.Dir(cfg.DataFilePath), 0o755); err != nil {
			return nil, nil, err
		}
		store, err := storage.NewFileStore(cfg.DataFilePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using file store", zap.String("path", cfg.DataFilePath))
		return store, func() {}, nil
	}
}
