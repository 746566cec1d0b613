package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"go.uber.org/zap"

	"aozu-ops-hub/internal/auth"
	"aozu-ops-hub/internal/config"
	"aozu-ops-hub/internal/content"
	"aozu-ops-hub/internal/handler"
	"aozu-ops-hub/internal/localstore"
	"aozu-ops-hub/internal/logging"
	"aozu-ops-hub/internal/middleware"
	"aozu-ops-hub/internal/repository"
	"aozu-ops-hub/internal/service"
	"aozu-ops-hub/internal/syncer"
	"aozu-ops-hub/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
		Env:   cfg.Server.Env,
	})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	local, closeLocal, err := openLocalStore(cfg.Local, logger)
	if err != nil {
		logger.Fatal("failed to open local store", zap.Error(err))
	}
	defer closeLocal()

	remote, err := openRemoteStore(cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to open remote store", zap.Error(err))
	}

	session := auth.NewSession()
	engine := syncer.NewEngine(local, remote, session, logger, cfg.Sync.Debounce)

	wsManager := websocket.NewManager(websocket.Options{
		MaxConnections: cfg.WebSocket.MaxConnPerUser,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
		WriteWait:      cfg.WebSocket.WriteWait,
		PongWait:       cfg.WebSocket.PongWait,
		PingPeriod:     cfg.WebSocket.PingPeriod,
	}, logger)
	engine.AddStatusReporter(wsManager)
	engine.SetRenderer(wsManager)

	loader := content.NewLoader(cfg.Content.Dir, logger)
	library, err := content.NewLibrary(loader, logger)
	if err != nil {
		logger.Fatal("failed to load content", zap.String("dir", cfg.Content.Dir), zap.Error(err))
	}

	var watcher *content.Watcher
	if cfg.Content.Watch {
		watcher, err = content.NewWatcher(library, logger)
		if err != nil {
			logger.Fatal("failed to create content watcher", zap.Error(err))
		}
		watcher.OnReload = wsManager.ContentReloaded
		if err := watcher.Start(); err != nil {
			logger.Warn("content watching disabled", zap.Error(err))
			watcher = nil
		}
	}

	learningService := service.NewLearningLogService(engine)
	templateService := service.NewTemplateService(engine, library)
	engine.AddMirror(learningService)
	engine.AddMirror(templateService)

	syncService := service.NewSyncService(engine, session)
	authService := service.NewAuthService(session, engine, cfg.Identity.TokenSecret)

	stopWatchingSession := engine.WatchSession(context.Background(), session)

	wsManager.SetMessageHandler(handler.NewWebSocketMessageHandler(syncService))
	wsCtx, stopWS := context.WithCancel(context.Background())
	go wsManager.Run(wsCtx)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}

	r := handler.NewRouter(handler.Handlers{
		Auth: handler.NewAuthHandler(authService),
		Sync: handler.NewSyncHandler(syncService),
		Personal: handler.NewPersonalHandler(
			service.NewChecklistService(engine),
			service.NewNotesService(engine),
			service.NewRulesService(engine, library),
		),
		Learning:  handler.NewLearningHandler(learningService),
		Templates: handler.NewTemplateHandler(templateService),
		Reference: handler.NewReferenceHandler(
			service.NewSOPService(library),
			service.NewCalculatorService(library),
		),
		WebSocket: handler.NewWebSocketHandler(wsManager, cfg.WebSocket, logger),
	}, handler.RouterOptions{
		Logger:      logger,
		Identity:    session,
		CORS:        cfg.CORS,
		RateLimiter: limiter,
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("addr", addr),
			zap.String("env", cfg.Server.Env),
			zap.Bool("cloud_sync", engine.RemoteEnabled()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	stopWatchingSession()
	if watcher != nil {
		watcher.Stop()
	}

	// Writes still waiting out the debounce would otherwise be lost.
	if err := engine.Flush(ctx); err != nil {
		logger.Error("failed to flush pending writes", zap.Error(err))
	}
	engine.Close()

	stopWS()
	<-wsManager.Done()

	logger.Info("server stopped gracefully")
}

// openLocalStore opens the on-disk store, or an in-memory one when no path is
// configured.
func openLocalStore(cfg config.LocalStoreConfig, logger *zap.Logger) (syncer.LocalStore, func(), error) {
	if cfg.Path == "" {
		logger.Warn("LOCAL_STORE_PATH is empty; local data will not survive restarts")
		return localstore.NewMemoryStore(), func() {}, nil
	}
	store, err := localstore.Open(cfg.Path, cfg.QuotaBytes, logger)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

// openRemoteStore returns nil when cloud sync is disabled, which leaves the
// engine local-only.
func openRemoteStore(cfg config.DatabaseConfig, logger *zap.Logger) (syncer.RemoteStore, error) {
	if !cfg.Enabled {
		logger.Info("cloud sync disabled")
		return nil, nil
	}

	client, err := kivik.New("couch", cfg.CouchURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to CouchDB: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.DBExists(ctx, cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check database existence: %w", err)
	}
	if !exists {
		if err := client.CreateDB(ctx, cfg.Name); err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
		logger.Info("created database", zap.String("name", cfg.Name))
	}

	logger.Info("connected to CouchDB",
		zap.String("host", cfg.Host),
		zap.String("port", cfg.Port),
		zap.String("database", cfg.Name))
	return repository.NewUserDocumentRepository(client, cfg.Name), nil
}
