package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telephony-log/internal/audit"
	"telephony-log/internal/config"
	"telephony-log/internal/conversations"
	"telephony-log/pkg/logger"
	"telephony-log/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Optional; real deployments set env directly.
	_ = godotenv.Load()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	deps, cleanup, err := buildDeps(rootCtx, cfg, log)
	if err != nil {
		log.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	if err := registerRoutes(r, cfg, deps); err != nil {
		log.Error("route setup failed", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "store", cfg.DB.Driver, "token_mode", cfg.TokenMode())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

// deps are the process-owned collaborators handed to the routes.
type deps struct {
	store conversations.Store
	ready interface {
		Ping(ctx context.Context) error
	}
	audit *audit.Service
	redis *redis.Client
}

func buildDeps(ctx context.Context, cfg config.Config, log *slog.Logger) (deps, func(), error) {
	var d deps
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.DB.Driver {
	case "memory":
		log.Warn("using in-memory store; data is lost on exit")
		mem := conversations.NewMemoryStore()
		d.store, d.ready = mem, mem
		d.audit = audit.NewService(audit.NewMemoryRepo())
	default:
		db, err := utils.OpenPostgres(ctx, cfg.DB.URL, utils.PostgresPoolConfig{})
		if err != nil {
			return deps{}, cleanup, err
		}
		closers = append(closers, func() { _ = db.Close() })

		pg := conversations.NewPostgresStore(db)
		if cfg.DB.AutoMigrate {
			if err := migrate(ctx, db, pg); err != nil {
				cleanup()
				return deps{}, func() {}, err
			}
			log.Info("schema ensured")
		}
		d.store, d.ready = pg, pg
		d.audit = audit.NewService(audit.NewPostgresRepo(db))
	}

	if cfg.Redis.Addr != "" {
		rdb, err := utils.OpenRedis(ctx, utils.RedisConfig{Addr: cfg.Redis.Addr})
		if err != nil {
			cleanup()
			return deps{}, func() {}, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		d.redis = rdb
	}

	return d, cleanup, nil
}

func migrate(ctx context.Context, db *sql.DB, pg *conversations.PostgresStore) error {
	if err := pg.EnsureSchema(ctx); err != nil {
		return err
	}
	return audit.EnsureSchema(ctx, db)
}
