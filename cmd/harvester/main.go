package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"FinanceHarvester/internal/config"
	"FinanceHarvester/internal/logging"
)

var configPath = flag.String("config", "configs/config.yaml", "path to the YAML configuration file")

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&runCmd{}, "")
	commander.Register(&scheduleCmd{}, "")
	commander.Register(&symbolsCmd{}, "")

	flag.Parse()
	if v := os.Getenv("CONFIG_PATH"); v != "" && !flagSet("config") {
		*configPath = v
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}

func flagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// setup loads and validates the configuration and builds the logger.
func setup() (*config.Config, *zap.Logger, func(), error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("config validation: %w", err)
	}
	logger, closeLog, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, closeLog, nil
}
