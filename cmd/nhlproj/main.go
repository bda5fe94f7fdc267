package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/cache"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/client"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/config"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/metrics"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/normalize"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/pipeline"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/providers"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/repository"
	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/snapshot"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()

	if err != nil {
		log.Error().Err(err).Msg("Run failed")
		stop()
		os.Exit(1)
	}
}

// app holds what one run builds in setup and releases in close
type app struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	closers  []func()
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "nhlproj",
		Short:         "Regenerate NHL snapshots and point projections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}

	for _, stage := range pipeline.Stages {
		stage := stage
		root.AddCommand(&cobra.Command{
			Use:   stage,
			Short: "Regenerate the " + stage + " snapshot",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.pipeline.Run(cmd.Context(), stage)
			},
		})
	}

	root.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Run every stage in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.pipeline.RunAll(cmd.Context())
		},
	})

	return root
}

// setup loads configuration and wires the pipeline. Only configuration
// faults are returned; the cache, the mirror and the network log are
// optional and degrade with a warning.
func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	setupLogger(cfg)
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("output_dir", cfg.OutputDir).
		Msg("Configuration loaded")

	rules := normalize.DefaultRules()
	if cfg.NormalizerRulesFile != "" {
		if rules, err = normalize.LoadRules(cfg.NormalizerRulesFile); err != nil {
			return err
		}
		log.Info().Str("path", cfg.NormalizerRulesFile).Msg("Normalizer rules loaded")
	}
	norm := normalize.New(rules)

	netlog, err := client.OpenNetLog(cfg.NetworkLogPath)
	if err != nil {
		log.Warn().Err(err).Msg("Network log unavailable - continuing without it")
		netlog = client.NopNetLog()
	}
	a.closers = append(a.closers, func() { _ = netlog.Close() })

	opts := []client.Option{client.WithNetLog(netlog)}
	if cfg.RedisEnabled {
		rc, err := cache.NewRedisCache(ctx, cache.Config{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
		} else {
			opts = append(opts, client.WithCache(rc))
			a.closers = append(a.closers, func() { _ = rc.Close() })
		}
	}

	httpClient := client.New(client.Config{
		Timeout:     cfg.HTTPTimeout,
		UserAgent:   cfg.HTTPUserAgent,
		Referer:     cfg.HTTPReferer,
		PacingDelay: cfg.PacingDelay,
	}, opts...)

	var mirror snapshot.Mirror
	if cfg.DatabaseURL != "" {
		if db := openMirror(ctx, cfg.DatabaseURL); db != nil {
			mirror = db.Snapshots
			a.closers = append(a.closers, db.Close)
		}
	}

	season := cfg.SeasonCode(time.Now())
	source := providers.NewSource(httpClient, norm, providers.Endpoints{
		StatsAPI:      cfg.StatsAPIBaseURL,
		APIWeb:        cfg.APIWebBaseURL,
		StatsREST:     cfg.StatsRESTBaseURL,
		ESPNSite:      cfg.ESPNSiteBaseURL,
		ESPNStandings: cfg.ESPNStandingsBaseURL,
	}, cfg.Teams, season)

	a.pipeline = pipeline.New(source, norm, snapshot.NewWriter(cfg.OutputDir, mirror), netlog, pipeline.Paths{
		Rinks:           cfg.RinksPaths,
		Goalies:         cfg.GoaliesPaths,
		Injuries:        cfg.InjuriesPaths,
		BaseProjections: cfg.BaseProjectionsPaths,
		Players:         cfg.PlayersPaths,
	})

	log.Info().
		Str("season", season).
		Int("teams", len(cfg.Teams)).
		Bool("cache", len(opts) > 1).
		Bool("mirror", mirror != nil).
		Msg("Pipeline ready")
	return nil
}

// openMirror connects to the snapshot database and returns nil when it is
// unreachable or fails its health check
func openMirror(ctx context.Context, url string) *repository.Database {
	db, err := repository.NewDatabase(ctx, url)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to database - snapshots will not be mirrored")
		return nil
	}
	if err := db.Health(ctx); err != nil {
		log.Warn().Err(err).Msg("Database unhealthy - snapshots will not be mirrored")
		db.Close()
		return nil
	}
	return db
}

// close pushes metrics and releases resources in reverse order
func (a *app) close() {
	if a.cfg != nil && a.cfg.PushgatewayURL != "" {
		if err := metrics.Push(a.cfg.PushgatewayURL, a.cfg.MetricsJob); err != nil {
			log.Warn().Err(err).Msg("Failed to push metrics")
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// setupLogger configures the zerolog logger and tags every line with a
// run id
func setupLogger(cfg *config.Config) {
	// Pretty console logging in development
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level on the console logger only; the network log has its own
	level := zerolog.InfoLevel
	if parsedLevel, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && parsedLevel != zerolog.NoLevel {
		level = parsedLevel
	}

	runID := uuid.NewString()
	log.Logger = log.Level(level).With().Str("run_id", runID).Logger()

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}
