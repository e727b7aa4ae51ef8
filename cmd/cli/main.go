package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dvloznov/spendwise/internal/app"
	"github.com/dvloznov/spendwise/internal/config"
	"github.com/dvloznov/spendwise/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return
	}

	cfg, err := config.Load(envFile())
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.NewWithLevel(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	// Only commands that touch Cloud Storage need the client.
	needsStorage := command == "import" || command == "upload"
	a, err := app.New(ctx, cfg, log, app.Options{SkipStorage: !needsStorage})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize backends")
	}
	defer a.Close()

	c := &cli{svc: a.Service, out: os.Stdout, log: log}
	if a.Storage != nil {
		c.storage = a.Storage
	}

	err = c.run(ctx, command, os.Args[2:])
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUnknownCommand):
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage(os.Stderr)
		a.Close()
		os.Exit(1)
	default:
		log.Error().Err(err).Str("command", command).Msg("Command failed")
		a.Close()
		os.Exit(1)
	}
}

// envFile is the .env path, overridable with SPENDWISE_ENV_FILE.
func envFile() string {
	if f := os.Getenv("SPENDWISE_ENV_FILE"); f != "" {
		return f
	}
	return ".env"
}
