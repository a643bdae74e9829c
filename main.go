package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/pegsolitaire/internal/config"
	"github.com/robalobadob/pegsolitaire/internal/httpserver"
	"github.com/robalobadob/pegsolitaire/internal/results"
	"github.com/robalobadob/pegsolitaire/internal/store"
	"github.com/robalobadob/pegsolitaire/internal/telemetry"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg config.Config) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.New(reg)

	policy := store.Policy{MaxSessions: cfg.MaxSessions, IdleTTL: cfg.SessionIdleTTL}
	sessions := store.NewMemoryStore(
		store.WithPolicy(policy),
		store.WithEvictHook(func(id string, reason store.EvictReason) {
			log.Debug().Str("gameId", id).Str("reason", string(reason)).Msg("session evicted")
			metrics.SessionEvicted(id, reason)
		}),
	)
	metrics.TrackSessions(sessions.Len)
	if !policy.Evicts() {
		log.Warn().Msg("session eviction disabled; memory grows with every new game id")
	}

	opts := httpserver.Options{
		APIKey:         cfg.APIKey,
		FrontendURL:    cfg.FrontendURL,
		RequestTimeout: cfg.RequestTimeout,
		Metrics:        metrics,
		Gatherer:       reg,
	}
	if cfg.DBPath != "" {
		db, err := openResultsDB(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		opts.Results = results.NewStore(db)
		log.Info().Str("db", cfg.DBPath).Msg("results log enabled")
	}

	srv := httpserver.New(sessions, opts)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr()).Msg("starting peg solitaire server")
		return srv.Start(ctx, cfg.Addr())
	})
	if policy.IdleTTL > 0 {
		g.Go(func() error {
			sweepIdle(ctx, sessions, cfg.SweepInterval)
			return nil
		})
	}
	return g.Wait()
}

func openResultsDB(path string) (*sql.DB, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// sweepIdle drops idle sessions every interval until ctx is done.
func sweepIdle(ctx context.Context, m *store.Memory, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := m.Sweep(now); n > 0 {
				log.Info().Int("evicted", n).Int("live", m.Len()).Msg("swept idle sessions")
			}
		}
	}
}
