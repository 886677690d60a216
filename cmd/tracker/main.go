package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/thraizz/combat-tracker/internal/cli"
	"github.com/thraizz/combat-tracker/internal/config"
	"github.com/thraizz/combat-tracker/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "", "path to configuration file (optional)")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Combat Tracker %s: keep track of combat in D&D\n\n", version)
		cli.NewRunner(cli.Options{}, os.Stdout, os.Stderr).Run([]string{"help"})
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Debug("starting combat tracker",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.String("state_path", cfg.State.Path),
	)

	var archiver *store.Archiver
	if cfg.State.Archive {
		archiver = store.NewArchiver(cfg.State.ArchiveDir, logger)
	}

	runner := cli.NewRunner(cli.Options{
		StatePath: cfg.State.Path,
		Archiver:  archiver,
		Logger:    logger,
	}, os.Stdout, os.Stderr)

	code := runner.Run(flag.Args())
	_ = logger.Sync()
	os.Exit(code)
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.WarnLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.DisableStacktrace = true
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
