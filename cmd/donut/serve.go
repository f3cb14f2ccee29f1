package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/donut/internal/config"
	"github.com/cory-johannsen/donut/internal/game/session"
	"github.com/cory-johannsen/donut/internal/gameserver"
	"github.com/cory-johannsen/donut/internal/leaderboard"
	"github.com/cory-johannsen/donut/internal/observability"
	"github.com/cory-johannsen/donut/internal/server"
	"github.com/cory-johannsen/donut/internal/storage/file"
	"github.com/cory-johannsen/donut/internal/storage/postgres"
	"github.com/cory-johannsen/donut/internal/storage/redis"
	"github.com/cory-johannsen/donut/internal/web"
	"github.com/cory-johannsen/donut/migrations"
)

const (
	shutdownTimeout = 15 * time.Second
	healthTimeout   = 2 * time.Second
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP game server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending database migrations before serving")
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions, migrate bool) error {
	start := time.Now()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logging,
		zap.String("command", "serve"),
		zap.String("version", version),
	)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	c, err := loadContent(opts.contentDir)
	if err != nil {
		return err
	}
	engine := newEngine(cfg.Game, c, newSource(cfg.Game.Seed, logger), logger)

	var pool *postgres.Pool
	if cfg.Storage.NeedsPostgres() {
		if migrate {
			if err := migrations.Up(cfg.Database.DSN()); err != nil {
				return err
			}
			logger.Info("migrations applied")
		}
		pool, err = postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()
	}

	saves, closeSaves, err := newSaveStore(ctx, cfg, pool)
	if err != nil {
		return err
	}
	defer closeSaves()

	var boardStore leaderboard.Store = leaderboard.NewMemoryStore()
	if cfg.Storage.Leaderboard == config.BackendPostgres {
		boardStore = postgres.NewLeaderboardRepository(pool.DB())
	}

	games := gameserver.NewGameService(session.NewManager(saves), engine, logger)
	webOpts := []web.Option{web.WithReplayDelay(cfg.Server.ReplayDelay)}
	if pool != nil {
		webOpts = append(webOpts, web.WithHealthCheck("database", func(ctx context.Context) error {
			return pool.Health(ctx, healthTimeout)
		}))
	}
	api := web.NewServer(games, leaderboard.NewService(boardStore, logger), logger, webOpts...)
	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	lc := server.NewLifecycle(logger)
	lc.Add("http", server.NewHTTPService(httpSrv, logger, shutdownTimeout))

	logger.Info("donut server ready",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("saves", cfg.Storage.Saves),
		zap.String("leaderboard", cfg.Storage.Leaderboard),
		zap.Bool("seeded", cfg.Game.Seed != 0),
		zap.Duration("startup", time.Since(start)),
	)
	return lc.Run(ctx)
}

// newSaveStore builds the configured session store and a func releasing it.
//
// Precondition: pool is non-nil when the postgres backend is selected.
func newSaveStore(ctx context.Context, cfg config.Config, pool *postgres.Pool) (session.Store, func(), error) {
	switch cfg.Storage.Saves {
	case config.BackendFile:
		s, err := file.NewSaveStore(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case config.BackendRedis:
		client := redis.NewClient(cfg.Redis)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return redis.NewSaveStore(client, cfg.Redis.KeyPrefix, cfg.Redis.TTL), func() { _ = client.Close() }, nil
	case config.BackendPostgres:
		return postgres.NewSaveRepository(pool.DB()), func() {}, nil
	default:
		return session.NewMemoryStore(), func() {}, nil
	}
}
