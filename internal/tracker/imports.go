package tracker

import (
	"context"
	"fmt"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/jobs"
	"github.com/dvloznov/spendwise/internal/logger"
	"github.com/dvloznov/spendwise/internal/pipeline"
)

func (s *Service) importDeps() pipeline.ImportDeps {
	return pipeline.ImportDeps{
		Runs:         s.repo,
		Transactions: s.repo,
		Merchants:    s.insights,
		Storage:      s.storage,
		Suggester:    s.suggester,
		Categorizer:  s.categorizer,
		UserID:       s.userID,
	}
}

// ImportCSV runs the import pipeline over inline CSV content.
func (s *Service) ImportCSV(ctx context.Context, source string, content []byte) (*pipeline.PipelineState, error) {
	if source == "" {
		source = "inline"
	}
	return pipeline.ImportCSV(ctx, source, content, s.importDeps())
}

// ImportFromGCS runs the import pipeline over an export stored in Cloud Storage.
func (s *Service) ImportFromGCS(ctx context.Context, gcsURI string) (*pipeline.PipelineState, error) {
	return pipeline.ImportFromGCS(ctx, gcsURI, s.importDeps())
}

// ImportRuns lists past imports, newest first.
func (s *Service) ImportRuns(ctx context.Context) ([]domain.ImportRun, error) {
	runs, err := s.repo.ListImportRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("ImportRuns: %w", err)
	}
	return runs, nil
}

// HandleJob is the jobs.JobHandler of the import worker.
func (s *Service) HandleJob(ctx context.Context, job jobs.Job) error {
	importJob, ok := job.(*jobs.ImportCSVJob)
	if !ok {
		return fmt.Errorf("HandleJob: unsupported job type %q", job.GetType())
	}

	log := logger.FromContext(ctx)
	log.Info().Str("gcs_uri", importJob.GCSURI).Int("retry_count", importJob.RetryCount).Msg("Processing import job")

	state, err := s.ImportFromGCS(ctx, importJob.GCSURI)
	if state != nil {
		importJob.ImportRunID = state.ImportRunID
	}
	if err != nil {
		if pipeline.IsEmptyResult(err) {
			return jobs.Permanent(fmt.Errorf("HandleJob: %w", err))
		}
		return fmt.Errorf("HandleJob: %w", err)
	}

	log = logger.WithImportRun(log, state.ImportRunID)
	log.Info().
		Int("parsed", state.Stats.Parsed).
		Int("uncategorized", state.Stats.Uncategorized).
		Int("months", state.Stats.Months).
		Msg("Import job finished")
	return nil
}
