package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/lysyi3m/content-comb/app/api"
	"github.com/lysyi3m/content-comb/app/cache"
	"github.com/lysyi3m/content-comb/app/cfg"
	"github.com/lysyi3m/content-comb/app/content"
	"github.com/lysyi3m/content-comb/app/database"
	"github.com/lysyi3m/content-comb/app/filter"
	"github.com/lysyi3m/content-comb/app/views"
)

func main() {
	// a missing .env is fine; real environment variables still apply
	_ = godotenv.Load()

	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting Content Comb", "version", appCfg.Version, "timezone", appCfg.Location.String())

	catalog := content.NewCatalog(appCfg.ContentDir)
	if err := catalog.Run(); err != nil {
		slog.Error("Failed to load content", "dir", appCfg.ContentDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Content loaded", "dir", appCfg.ContentDir, "collections", catalog.GetCollectionCount())

	backend, err := openViewStore(appCfg)
	if err != nil {
		slog.Error("Failed to open saved view storage", "backend", appCfg.ViewStore, "error", err)
		os.Exit(1)
	}
	defer backend.closer.Close()

	handler := api.NewHandler(catalog, views.NewStore(backend.kv), api.Options{
		BaseUrl:       appCfg.BaseUrl,
		Port:          appCfg.Port,
		Version:       appCfg.Version,
		PageSize:      appCfg.PageSize,
		DefaultLocale: filter.LocaleOrDefault(appCfg.DefaultLocale, filter.Turkish),
		Location:      appCfg.Location,
		ViewBackend:   appCfg.ViewStore,
		ViewHealth:    backend.health,
	})

	if !appCfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port, "view_store", appCfg.ViewStore)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Content Comb shutdown complete")
}

type viewBackend struct {
	kv     views.KV
	health func(ctx context.Context) map[string]any
	closer io.Closer
}

func openViewStore(appCfg *cfg.Cfg) (*viewBackend, error) {
	switch appCfg.ViewStore {
	case cfg.ViewStoreRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		c, err := cache.NewCache(ctx, appCfg.RedisAddr, appCfg.RedisNamespace)
		if err != nil {
			return nil, err
		}
		return &viewBackend{kv: c, health: c.Health, closer: c}, nil

	case cfg.ViewStoreSQLite:
		db, err := database.NewConnection(appCfg.DBPath)
		if err != nil {
			return nil, err
		}

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

		repo := database.NewKVRepository(db)
		return &viewBackend{kv: repo, health: repo.Health, closer: db}, nil

	default:
		slog.Warn("Saved views are kept in memory and lost on restart")
		return &viewBackend{kv: views.NewMemoryKV(), closer: io.NopCloser(nil)}, nil
	}
}
