package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/dvloznov/spendwise/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.Error(t, s.SaveJob(ctx, &jobs.ImportCSVJob{}))

	job := &jobs.ImportCSVJob{JobID: "j1", GCSURI: "gs://b/a.csv", Status: jobs.JobStatusPending}
	require.NoError(t, s.SaveJob(ctx, job))

	job.Status = jobs.JobStatusRunning
	got, err := s.GetJob(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, jobs.JobStatusPending, got.Status, "store keeps its own copy")

	_, err = s.GetJob(ctx, "missing")
	assert.ErrorIs(t, err, jobs.ErrJobNotFound)
}

func TestStore_ListJobs(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, status := range []jobs.JobStatus{jobs.JobStatusCompleted, jobs.JobStatusFailed, jobs.JobStatusCompleted} {
		require.NoError(t, s.SaveJob(ctx, &jobs.ImportCSVJob{
			JobID:       string(rune('a' + i)),
			GCSURI:      "gs://b/x.csv",
			ImportRunID: "run-" + string(rune('a'+i)),
			Status:      status,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, err := s.ListJobs(ctx, jobs.JobFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].JobID)
	assert.Equal(t, "a", all[2].JobID)

	completed, err := s.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusCompleted})
	require.NoError(t, err)
	assert.Len(t, completed, 2)

	page, err := s.ListJobs(ctx, jobs.JobFilter{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].JobID)

	empty, err := s.ListJobs(ctx, jobs.JobFilter{Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, empty)

	byRun, err := s.ListJobs(ctx, jobs.JobFilter{ImportRunID: "run-b"})
	require.NoError(t, err)
	require.Len(t, byRun, 1)
	assert.Equal(t, "b", byRun[0].JobID)

	none, err := s.ListJobs(ctx, jobs.JobFilter{GCSURI: "gs://b/other.csv"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_UpdateJobStatus(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SaveJob(ctx, &jobs.ImportCSVJob{JobID: "j1"}))

	require.NoError(t, s.UpdateJobStatus(ctx, "j1", jobs.JobStatusFailed, "boom"))
	got, err := s.GetJob(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, jobs.JobStatusFailed, got.Status)
	assert.Equal(t, "boom", got.Error)

	assert.ErrorIs(t, s.UpdateJobStatus(ctx, "nope", jobs.JobStatusFailed, ""), jobs.ErrJobNotFound)
}

func TestJobStatus(t *testing.T) {
	assert.True(t, jobs.JobStatusRetrying.Valid())
	assert.False(t, jobs.JobStatus("done").Valid())
	assert.True(t, jobs.JobStatusFailed.Terminal())
	assert.True(t, jobs.JobStatusCompleted.Terminal())
	assert.False(t, jobs.JobStatusRetrying.Terminal())
}
