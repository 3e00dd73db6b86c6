package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/shelfsync/shelfsync/internal/catalog"
	"github.com/shelfsync/shelfsync/internal/config"
	"github.com/shelfsync/shelfsync/internal/httpserver"
	"github.com/shelfsync/shelfsync/internal/httpserver/deps"
	"github.com/shelfsync/shelfsync/internal/logger"
	"github.com/shelfsync/shelfsync/internal/redis"
	"github.com/shelfsync/shelfsync/internal/scheduler"
	"github.com/shelfsync/shelfsync/internal/socket"
	"github.com/shelfsync/shelfsync/internal/sources/cheatsheet"
	"github.com/shelfsync/shelfsync/internal/store/docstore"
	"github.com/shelfsync/shelfsync/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	hub         *socket.Hub
	janitor     *scheduler.Janitor
	hubCancel   context.CancelFunc
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Pick the document store backend.
	var (
		docs        docstore.Store
		redisClient *goredis.Client
		janitor     *scheduler.Janitor
	)
	switch cfg.DocStore {
	case config.DocStoreRedis:
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Redis initialized successfully")
		redisClient = client
		docs = docstore.NewRedisStore(client, cfg.DocTTL)

	default:
		loggerClient.Info("using in-memory document store")
		mem := docstore.NewMemoryStore()
		docs = mem
		// Redis expires keys on its own; the memory store needs a janitor.
		janitor = scheduler.NewJanitor(mem, loggerClient, cfg.JanitorInterval, cfg.JanitorMaxAge)
	}

	// Load the cheatsheet catalog if a file is configured.
	var cat *catalog.Catalog
	if cfg.CheatsheetFile != "" {
		f, err := cheatsheet.NewLoader(cfg.CheatsheetFile).Load()
		if err != nil {
			loggerClient.Errorf("Failed to load cheatsheet file: %v", err)
			os.Exit(1)
		}
		cat = catalog.New()
		cat.Replace(cheatsheet.Map(f))
		loggerClient.Info("cheatsheet catalog loaded",
			logger.String("file", cfg.CheatsheetFile),
			logger.Int("entries", cat.Count()))
	} else {
		loggerClient.Info("cheatsheet file not configured, catalog disabled")
	}

	hub := socket.NewHub(loggerClient)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		TimeNow:      time.Now,
		Docs:         docs,
		Catalog:      cat,
		Hub:          hub,
		TrustProxy:   cfg.TrustProxy,
		AllowedCIDRS: cfg.AllowedCIDRS,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		hub:         hub,
		janitor:     janitor,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting shelfsync v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("shelfsync %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the websocket hub
	hubCtx, hubCancel := context.WithCancel(ctx)
	a.hubCancel = hubCancel
	go a.hub.Run(hubCtx)
	a.logger.Info("socket hub started")

	// Start the janitor (memory store only)
	if a.janitor != nil {
		if err := a.janitor.Start(ctx); err != nil {
			return fmt.Errorf("failed to start janitor: %w", err)
		}
		a.logger.Info("janitor started",
			logger.Duration("interval", a.cfg.JanitorInterval),
			logger.Duration("max_age", a.cfg.JanitorMaxAge))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.janitor != nil {
		a.janitor.Stop()
	}
	a.hubCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ shelfsync stopped cleanly")
	return nil
}
