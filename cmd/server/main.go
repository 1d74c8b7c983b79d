package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"moodjournal/internal/config"
	"moodjournal/internal/db"
	"moodjournal/internal/handlers"
	"moodjournal/internal/logging"
	"moodjournal/internal/media"
	mw "moodjournal/internal/middleware"
	"moodjournal/internal/services"
	"moodjournal/internal/store"
	"moodjournal/internal/store/local"
	"moodjournal/internal/store/postgres"
	"moodjournal/internal/validation"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	status := handlers.SystemStatus{StartedAt: time.Now().UTC()}

	cache, err := local.Open(local.Options{Path: cfg.Cache.Path, InMemory: cfg.Cache.InMemory}, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Warn("close local cache", zap.Error(err))
		}
	}()

	recordBackends := []store.RecordBackend{}
	categoryBackends := []store.CategoryBackend{}
	var remote *postgres.Store
	var schema *db.Schema

	if cfg.RemoteEnabled() {
		status.RemoteConfigured = true
		conn, err := db.Connect(cfg.Database.URL, db.Options{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			status.RemoteError = err.Error()
			logger.Warn("invalid DATABASE_URL; running on the local cache only", zap.Error(err))
		} else {
			defer conn.Close()
			schema = db.NewSchema(conn, logger)
			remote = postgres.New(conn, postgres.WithSchema(schema))
			if err := remote.Ping(startCtx); err != nil {
				status.RemoteError = err.Error()
				logger.Warn("remote store not reachable yet; falling back per call until it is", zap.Error(err))
			} else {
				status.RemoteReachable = true
			}
			status.MigrationsApplied, status.SchemaReady, _ = schema.Status()
			recordBackends = append(recordBackends, remote)
			categoryBackends = append(categoryBackends, remote)
		}
	} else {
		logger.Warn("DATABASE_URL not set; running on the local cache only")
	}
	recordBackends = append(recordBackends, cache)
	categoryBackends = append(categoryBackends, cache)

	bucket := media.New(cfg.Media.Root, cfg.Media.Bucket, cfg.Media.PublicURL, logger)
	created, err := bucket.EnsureBucket(startCtx)
	if err != nil {
		logger.Warn("media bucket unavailable", zap.String("dir", bucket.Dir()), zap.Error(err))
	} else {
		status.BucketReady = true
		status.BucketCreated = created
	}

	v := validation.New()
	records := services.NewRecordService(store.NewChain(logger, recordBackends...), bucket, v, logger)
	categories := services.NewCategoryRegistry(store.NewChain(logger, categoryBackends...), v, logger)
	status.Backends = records.Backends()

	var pinger handlers.Pinger
	var schemaReporter handlers.SchemaReporter
	if remote != nil {
		pinger = remote
		schemaReporter = schema
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		Records:        records,
		Categories:     categories,
		Bucket:         bucket,
		Auth:           mw.NewAuthMiddleware([]byte(cfg.Auth.JWTSecret)),
		Status:         handlers.NewAdminHandler(status, pinger, schemaReporter),
		AllowedOrigins: cfg.CORS.Origins(),
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.Strings("backends", status.Backends),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("shutdown initiated")
	ctx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
