package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mochi-games/internal/app"
	"mochi-games/internal/config"
	"mochi-games/internal/infra/memory"
	"mochi-games/internal/infra/postgres"
	"mochi-games/internal/infra/rabbit"
	redisstore "mochi-games/internal/infra/redis"
	"mochi-games/internal/infra/sqlite"
	"mochi-games/internal/logger"
	transport "mochi-games/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// recentResults bounds the in-process log served by GET /api/results.
const recentResults = 100

// deps are the backing services the config asked for; nil when not configured.
type deps struct {
	redis   *redis.Client
	pool    *pgxpool.Pool
	closers []func() error
}

func (d *deps) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		_ = d.closers[i]()
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	d := &deps{}
	defer d.close()

	if cfg.Redis.Addr != "" {
		d.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, d.redis.Close)
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
		d.pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		d.closers = append(d.closers, func() error { d.pool.Close(); return nil })
	}

	catalog := buildCatalog(cfg, d)
	store, err := buildContentStore(ctx, cfg, d, log)
	if err != nil {
		return err
	}
	content := app.NewContentService(catalog, store, log.Named("content"))

	var sessions app.SessionRepository
	if d.redis != nil {
		sessions = redisstore.NewSessionStore(d.redis, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute))
	} else {
		sessions = memory.NewSessionStore()
	}

	recent := memory.NewRecentResults(recentResults)
	sinks, err := buildSinks(cfg, d, log)
	if err != nil {
		return err
	}
	sinks = append(sinks, recent)

	clock := app.SystemClock{}
	voice := app.NewSimulatedTranscriber(clock, config.TTLDuration(cfg.Voice.Delay, 2*time.Second), cfg.Voice.Transcript)
	feedback := app.NewMockFeedbackProvider(clock, config.TTLDuration(cfg.Feedback.Delay, 500*time.Millisecond))
	service := app.NewPlayService(content, sessions, voice, log.Named("play"), sinks...)

	wsHandler := transport.NewWSHandler(service, log.Named("ws"))
	apiHandler := transport.NewAPIHandler(content, feedback, recent, log.Named("api"))

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	apiHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting game service",
			zap.String("port", finalPort),
			zap.String("storage", cfg.Storage.Backend))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildCatalog serves categories from Postgres when configured, otherwise the
// built-in set, behind a Redis or in-process cache.
func buildCatalog(cfg config.Config, d *deps) app.CatalogLoader {
	var loader app.CatalogLoader = memory.NewBuiltinCatalog(app.SystemClock{}, config.TTLDuration(cfg.Catalog.Delay, 300*time.Millisecond))
	if d.pool != nil {
		loader = postgres.NewCatalogLoader(d.pool)
	}

	ttl := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	if d.redis != nil {
		return redisstore.NewCatalogCache(d.redis, loader, ttl)
	}
	return memory.NewCatalogCache(loader, ttl)
}

func buildContentStore(ctx context.Context, cfg config.Config, d *deps, log *zap.Logger) (app.ContentStore, error) {
	log = log.Named("store")
	switch cfg.Storage.Backend {
	case "", config.BackendMemory:
		return memory.NewContentStore(log), nil
	case config.BackendRedis:
		if d.redis == nil {
			return nil, fmt.Errorf("storage backend redis requires redis.addr")
		}
		return redisstore.NewContentStore(d.redis, cfg.Storage.Slot, log), nil
	case config.BackendPostgres:
		if d.pool == nil {
			return nil, fmt.Errorf("storage backend postgres requires postgres.url")
		}
		return postgres.NewContentStore(d.pool, log), nil
	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLite.Path, cfg.Storage.Slot, log)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, store.Close)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func buildSinks(cfg config.Config, d *deps, log *zap.Logger) ([]app.ResultSink, error) {
	var sinks []app.ResultSink
	if d.pool != nil {
		sinks = append(sinks, postgres.NewResultRecorder(d.pool))
	}
	if cfg.Rabbit.URL != "" {
		pub, err := rabbit.Dial(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
		if err != nil {
			return nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		d.closers = append(d.closers, pub.Close)
		sinks = append(sinks, pub)
	}
	if len(sinks) == 0 {
		log.Debug("no durable result sinks configured")
	}
	return sinks, nil
}
