package canteen

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"

	"campus-canteen/internal/common/httpx"
	"campus-canteen/internal/common/logger"
	"campus-canteen/internal/common/metrics"
	"campus-canteen/internal/config"
	"campus-canteen/internal/connections/database"
	"campus-canteen/internal/events"
	"campus-canteen/internal/microservices/canteen/handlers"
	"campus-canteen/internal/microservices/canteen/repository"
	"campus-canteen/internal/microservices/canteen/service"
	"campus-canteen/internal/session"
)

// Run starts the canteen HTTP server and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	lg := logger.New("canteen-server")

	db, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	lg.Info("db_connected", map[string]any{"host": cfg.Database.Host, "database": cfg.Database.Database})

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	store, closeStore, err := newSessionStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, err := events.New(cfg, lg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	m := metrics.New()
	svc := service.New(repository.New(db), service.Options{
		Owner:     cfg.Owner,
		Publisher: publisher,
		Metrics:   m,
		Logger:    lg,
		Location:  loc,
	})

	if err := svc.IdentityService.BootstrapOwner(ctx); err != nil {
		return fmt.Errorf("bootstrap owner: %w", err)
	}
	if _, err := svc.MenuService.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed menu: %w", err)
	}

	sessions := handlers.NewSessions(store, session.NewSigner(cfg.Session.Secret, cfg.Session.TTL), cfg.Session)
	mux := http.NewServeMux()
	handlers.New(svc, sessions).Register(mux)
	mux.HandleFunc("GET /healthz", healthz(db))
	mux.Handle("GET /metrics", m.Handler())

	srv := httpx.New(cfg.Server, httpx.Wrap(mux, lg, m))
	lg.Info("service_started", map[string]any{"port": cfg.Server.Port, "events": cfg.Events.Backend})
	return srv.Run(ctx)
}

func newSessionStore(ctx context.Context, cfg *config.Config, lg *logger.Logger) (session.Store, func(), error) {
	if cfg.Redis.Addr == "" {
		lg.Info("session_store", map[string]any{"backend": "memory"})
		return session.NewMemoryStore(cfg.Session.TTL), func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
	}
	lg.Info("session_store", map[string]any{"backend": "redis", "addr": cfg.Redis.Addr})
	return session.NewRedisStore(rdb, cfg.Session.TTL), func() { _ = rdb.Close() }, nil
}

func healthz(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
