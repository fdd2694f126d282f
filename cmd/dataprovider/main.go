package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dataprovider/internal/config"
	"github.com/kailas-cloud/dataprovider/internal/db"
	dbBleve "github.com/kailas-cloud/dataprovider/internal/db/bleve"
	dbRedis "github.com/kailas-cloud/dataprovider/internal/db/redis"
	logpkg "github.com/kailas-cloud/dataprovider/internal/logger"
	"github.com/kailas-cloud/dataprovider/internal/metrics"
	searchrepo "github.com/kailas-cloud/dataprovider/internal/repository/search"
	chiTransport "github.com/kailas-cloud/dataprovider/internal/transport/chi"
	"github.com/kailas-cloud/dataprovider/internal/usecase/dataprovider"
	healthuc "github.com/kailas-cloud/dataprovider/internal/usecase/health"
	searchuc "github.com/kailas-cloud/dataprovider/internal/usecase/search"
	"github.com/kailas-cloud/dataprovider/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("failed to load .env: " + err.Error())
	}

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting dataprovider API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("index", cfg.Search.Index),
	)

	store, err := newStore(cfg)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterBackendMetrics()

	backend := dataprovider.NewInstrumentedBackend(
		searchrepo.New(store, cfg.Search.KeyPrefix), cfg.Database.Driver, logger,
	)

	searchSvc, err := searchuc.New(backend, searchSettings(cfg.Search), typeSpecs(cfg.Search)...)
	if err != nil {
		logger.Fatal("Invalid search types", zap.Error(err))
	}
	healthSvc := healthuc.New(store, backend, cfg.Search.Index)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// newStore creates the search driver selected by database.driver.
func newStore(cfg config.Config) (db.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverRedis:
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
	case config.DriverBleve:
		return dbBleve.NewStore(cfg.Search.Index, dbBleve.Config{Path: cfg.Database.BlevePath})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func searchSettings(c config.SearchConfig) searchuc.Settings {
	return searchuc.Settings{
		Index:           c.Index,
		Filter:          c.Filter,
		ReturnFields:    c.ReturnFields,
		DefaultPageSize: c.DefaultPageSize,
		MaxPageSize:     c.MaxPageSize,
		KeyField:        c.KeyField,
		TypeField:       c.TypeField,
		DefaultType:     c.DefaultType,
		DefaultSort:     c.DefaultSort,
		MultiSort:       c.MultiSort,
	}
}

// typeSpecs returns the configured types sorted by name.
func typeSpecs(c config.SearchConfig) []searchuc.TypeSpec {
	names := slices.Sorted(maps.Keys(c.Types))
	specs := make([]searchuc.TypeSpec, 0, len(names))
	for _, name := range names {
		t := c.Types[name]
		specs = append(specs, searchuc.TypeSpec{
			Name:       name,
			Attributes: t.Attributes,
			Labels:     t.Labels,
			Identity:   t.Identity,
		})
	}
	return specs
}
