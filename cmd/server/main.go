package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"meetnotes/internal/cache"
	"meetnotes/internal/config"
	"meetnotes/internal/events"
	"meetnotes/internal/handler"
	"meetnotes/internal/httpserver"
	"meetnotes/internal/notes"
	"meetnotes/internal/repository"
	"meetnotes/internal/service/generate"
	"meetnotes/internal/service/organizer"
	"meetnotes/pkg/db"
	"meetnotes/pkg/logger"
	"meetnotes/pkg/mq"
	pkgredis "meetnotes/pkg/redis"
	"meetnotes/pkg/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("failed to load config: %v", err)
	}

	log := logger.NewLogger(cfg.Log.Level)
	defer log.Sync()

	log.Info("Starting meetnotes server...",
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("port", cfg.Server.Port),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("events_enabled", cfg.MQ.URL != ""),
	)

	ctx := context.Background()
	readyChecks := map[string]httpserver.ReadyCheck{}

	// Redis（可选）：缓存、事件去重、redis 存储
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = pkgredis.NewRedisClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to init Redis", zap.Error(err))
		}
		defer rdb.Close()
		readyChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// Workspace store
	store, closeStore, err := openStore(ctx, cfg, rdb, log)
	if err != nil {
		log.Fatal("Failed to init workspace store", zap.Error(err))
	}
	defer closeStore()
	if p, ok := store.(repository.Pinger); ok {
		readyChecks["store"] = p.Ping
	}

	// MQ（可选）：连不上时只关闭事件，不阻止启动
	var emitter *events.Emitter
	if cfg.MQ.URL != "" {
		publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			log.Warn("MQ unavailable, domain events disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			var dedup events.Deduper
			if rdb != nil {
				dedup = util.NewDeduper(rdb, cfg.Events.DedupTTL, log)
			}
			emitter = events.NewEmitter(publisher, dedup, log)
			readyChecks["mq"] = func(context.Context) error {
				if !publisher.IsConnected() {
					return fmt.Errorf("publisher disconnected")
				}
				return nil
			}
		}
	}

	// Services
	genOpts := []generate.Option{
		generate.WithParser(notes.NewParser(cfg.Pipeline)),
		generate.WithMaxInputChars(cfg.Limits.MaxInputChars),
	}
	if cfg.Cache.Enabled && rdb != nil {
		genOpts = append(genOpts, generate.WithCache(cache.NewArtifactCache(rdb, cfg.Cache.TTL, log)))
	}
	var orgEvents organizer.Events
	if emitter != nil {
		genOpts = append(genOpts, generate.WithEvents(emitter))
		orgEvents = emitter
	}
	genService := generate.NewService(log, genOpts...)
	orgService := organizer.NewService(store, genService, orgEvents, log)

	// HTTP Server
	router := httpserver.NewRouter(httpserver.Handlers{
		Generate:  handler.NewGenerateHandler(genService, log),
		Workspace: handler.NewWorkspaceHandler(orgService, log),
		Session:   handler.NewSessionHandler(orgService, log),
	}, log, httpserver.Options{
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		ReadyChecks:  readyChecks,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 优雅退出处理
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down meetnotes server gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}
}

// openStore 按配置选择工作区存储，返回的 close 函数总是非 nil
func openStore(ctx context.Context, cfg *config.Config, rdb *redis.Client, log *zap.Logger) (repository.WorkspaceStore, func(), error) {
	noop := func() {}
	driver := cfg.Store.Driver

	var store repository.WorkspaceStore
	closeFn := noop
	switch driver {
	case repository.DriverMemory:
		store = repository.NewMemoryStore()
	case repository.DriverFile:
		fs, err := repository.NewFileStore(cfg.Store.Path, log)
		if err != nil {
			return nil, noop, err
		}
		store = fs
	case repository.DriverPostgres:
		pool, err := db.NewConnection(ctx, cfg.DB, log)
		if err != nil {
			return nil, noop, err
		}
		pg := repository.NewPostgresStore(pool, cfg.Store.WorkspaceID, log)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		store, closeFn = pg, pool.Close
	case repository.DriverRedis:
		if rdb == nil {
			return nil, noop, fmt.Errorf("store driver %q requires redis.addr", driver)
		}
		key := repository.DefaultWorkspaceKey
		if id := cfg.Store.WorkspaceID; id != "" && id != repository.DefaultWorkspaceID {
			key += ":" + id
		}
		store = repository.NewRedisStore(rdb, key, log)
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", driver)
	}

	log.Info("Workspace store ready", zap.String("driver", driver))
	return repository.WithMetrics(driver, store), closeFn, nil
}
