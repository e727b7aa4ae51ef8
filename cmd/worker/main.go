// Command worker imports CSV exports that already live in Cloud Storage.
// URIs come from the arguments or, one per line, from stdin. Imports run on
// the job queue and the process exits once every job has finished.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dvloznov/spendwise/internal/app"
	"github.com/dvloznov/spendwise/internal/config"
	"github.com/dvloznov/spendwise/internal/gcs"
	"github.com/dvloznov/spendwise/internal/jobs"
	"github.com/dvloznov/spendwise/internal/jobs/inmemory"
	"github.com/dvloznov/spendwise/internal/logger"
)

func main() {
	var (
		envFile = flag.String("env", ".env", "Path to an optional .env file")
		workers = flag.Int("workers", inmemory.DefaultWorkers, "Number of concurrent imports")
		timeout = flag.Duration("timeout", 30*time.Minute, "Give up after this long")
	)
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.NewWithLevel(cfg.LogLevel)

	uris, err := collectURIs(flag.Args(), os.Stdin)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid input")
	}
	if len(uris) == 0 {
		log.Fatal().Msg("No GCS URIs given; pass them as arguments or on stdin")
	}

	// Create context that cancels on interrupt or timeout
	ctx, cancel := context.WithTimeout(logger.WithContext(context.Background(), log), *timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log, app.Options{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize backends")
	}
	defer a.Close()
	if a.Storage == nil {
		log.Fatal().Msg("GCS_BUCKET must be set so the worker can read from Cloud Storage")
	}

	// Initialize job store and queue
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueueWithOptions(len(uris), jobStore, inmemory.Options{Workers: *workers})

	log.Info().Int("jobs", len(uris)).Int("workers", *workers).Msg("Starting worker")

	if err := jobQueue.Start(ctx, a.Service.HandleJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	ids := make([]string, 0, len(uris))
	for _, u := range uris {
		job := &jobs.ImportCSVJob{GCSURI: u.String(), Filename: u.Filename()}
		if err := jobQueue.PublishImportCSV(ctx, job); err != nil {
			log.Fatal().Err(err).Str("gcs_uri", u.String()).Msg("Failed to enqueue import job")
		}
		ids = append(ids, job.JobID)
	}

	failed, err := waitForJobs(ctx, jobStore, ids, time.Second)
	if err != nil {
		log.Error().Err(err).Msg("Stopped before every job finished")
	}

	// Stop workers
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := jobQueue.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Int("jobs", len(ids)).Int("failed", failed).Msg("Worker finished")
	if failed > 0 || err != nil {
		a.Close()
		os.Exit(1)
	}
}

// collectURIs parses the URIs given as arguments, or read from in when
// there are none. Blank lines and lines starting with # are skipped.
func collectURIs(args []string, in io.Reader) ([]gcs.URI, error) {
	lines := args
	if len(lines) == 0 && in != nil {
		if f, ok := in.(*os.File); ok {
			if st, err := f.Stat(); err == nil && st.Mode()&os.ModeCharDevice != 0 {
				return nil, nil
			}
		}
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("collectURIs: %w", err)
		}
	}

	var out []gcs.URI
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		u, err := gcs.ParseURI(line)
		if err != nil {
			return nil, fmt.Errorf("collectURIs: %w", err)
		}
		out = append(out, u)
	}
	return out, nil
}

// waitForJobs polls the store until every job is completed or failed and
// returns the number of failed jobs.
func waitForJobs(ctx context.Context, store jobs.JobStore, ids []string, interval time.Duration) (int, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		failed, pending := 0, 0
		for _, id := range ids {
			job, err := store.GetJob(ctx, id)
			if err != nil {
				return 0, fmt.Errorf("waitForJobs: %w", err)
			}
			switch {
			case !job.Status.Terminal():
				pending++
			case job.Status == jobs.JobStatusFailed:
				failed++
			}
		}
		if pending == 0 {
			return failed, nil
		}

		select {
		case <-ctx.Done():
			return failed, ctx.Err()
		case <-ticker.C:
		}
	}
}
