package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/tank2/internal/ai"
	"github.com/mitchelldurbincs/tank2/internal/config"
	"github.com/mitchelldurbincs/tank2/internal/experience"
	"github.com/mitchelldurbincs/tank2/internal/game/events"
	"github.com/mitchelldurbincs/tank2/internal/game/mapgen"
	"github.com/mitchelldurbincs/tank2/internal/monitoring"
	"github.com/mitchelldurbincs/tank2/internal/selfplay"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	games := flag.Int("games", -1, "Number of matches to play (-1 to use config default)")
	workers := flag.Int("workers", -1, "Matches played in parallel (-1 to use config default)")
	seed := flag.Int64("seed", 0, "Seed of the first match (0 to use config default, time-based if unset)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	recordDir := flag.String("record-dir", "", "Directory for parquet match records (empty to use config default)")
	watch := flag.Bool("watch", false, "Reload the log level when the config file changes")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()

	// Use config defaults if not overridden by flags
	if *games == -1 {
		*games = cfg.SelfPlay.Games
	}
	if *workers == -1 {
		*workers = cfg.SelfPlay.Workers
	}
	if *seed == 0 {
		*seed = cfg.SelfPlay.Seed
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}
	if *recordDir == "" {
		*recordDir = cfg.SelfPlay.RecordDir
	}

	setupLogging(*logLevel, cfg.Logging.Format)

	if *watch {
		config.WatchConfig(func() {
			setupLogging(config.Get().Logging.Level, config.Get().Logging.Format)
			log.Info().Str("file", config.ConfigFilePath()).Msg("Config reloaded")
		})
	}

	log.Info().
		Int("games", *games).
		Int("workers", *workers).
		Int64("seed", *seed).
		Int("max_turns", cfg.Game.MaxTurns).
		Msg("Starting self-play")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	monitor := monitoring.NewMatchMonitor(30*time.Second, log.Logger)
	monitor.Start()
	defer monitor.Stop()

	var subs []events.Subscriber
	var collector *experience.Collector
	if *recordDir != "" {
		collector = experience.NewCollector("experience", cfg.SelfPlay.MaxRecords, nil, log.Logger)
		subs = append(subs, collector)
	}

	runner := selfplay.NewRunner(selfplay.Options{
		Games:    *games,
		Workers:  *workers,
		Seed:     *seed,
		MaxTurns: cfg.Game.MaxTurns,
		Map: mapgen.MapConfig{
			BrickPercent: cfg.Map.BrickPercent,
			SteelPercent: cfg.Map.SteelPercent,
			WaterPercent: cfg.Map.WaterPercent,
			MaxAttempts:  cfg.Map.MaxAttempts,
		},
		AI: ai.Settings{
			StuckThreshold:     cfg.AI.StuckThreshold,
			ProximityThreshold: cfg.AI.ProximityThreshold,
		},
		EventLogLevel: zerolog.DebugLevel,
	}, log.Logger, monitor, subs...)

	start := time.Now()
	results, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn().Msg("Self-play interrupted")
			return
		}
		log.Fatal().Err(err).Msg("Self-play failed")
	}

	if cfg.SelfPlay.ShowBoard {
		for _, res := range results {
			fmt.Printf("match %d (%s, seed %d): %s after %d turns\n%s\n",
				res.Index, res.GameID, res.Seed, res.Result, res.Turns, res.Board)
		}
	}

	summary := selfplay.Summarize(results)
	log.Info().
		Int("games", summary.Games).
		Int("side0_wins", summary.Wins[0]).
		Int("side1_wins", summary.Wins[1]).
		Int("draws", summary.Draws).
		Float64("average_turns", summary.AverageTurns).
		Dur("elapsed", time.Since(start)).
		Msg("Self-play complete")

	if collector != nil {
		path, err := experience.WriteBatch(*recordDir, collector.Drain())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to write match records")
		}
		log.Info().
			Str("path", path).
			Int("dropped", collector.Dropped()).
			Msg("Match records written")
	}
}

func setupLogging(level, format string) {
	// Parse log level
	var logLevel zerolog.Level
	switch level {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	if format == "json" || os.Getenv("APP_ENV") == "production" {
		// JSON output for production
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		// Pretty console output for development
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
}
