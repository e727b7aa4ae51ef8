package inmemory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dvloznov/spendwise/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastQueue(store jobs.JobStore) *Queue {
	return NewQueueWithOptions(10, store, Options{
		Workers: 2,
		Backoff: func(int) time.Duration { return time.Millisecond },
	})
}

func waitForStatus(t *testing.T, store *Store, jobID string, want jobs.JobStatus) *jobs.ImportCSVJob {
	t.Helper()
	var last *jobs.ImportCSVJob
	require.Eventually(t, func() bool {
		job, err := store.GetJob(context.Background(), jobID)
		if err != nil {
			return false
		}
		last = job
		return job.Status == want
	}, 2*time.Second, 5*time.Millisecond)
	return last
}

func TestQueue_PublishDefaults(t *testing.T) {
	store := NewStore()
	q := fastQueue(store)
	defer q.Close()

	job := &jobs.ImportCSVJob{GCSURI: "gs://b/a.csv"}
	require.NoError(t, q.PublishImportCSV(context.Background(), job))

	assert.NotEmpty(t, job.JobID)
	assert.Equal(t, jobs.JobStatusPending, job.Status)
	assert.Equal(t, jobs.DefaultMaxRetries, job.MaxRetries)
	assert.False(t, job.CreatedAt.IsZero())

	stored, err := store.GetJob(context.Background(), job.JobID)
	require.NoError(t, err)
	assert.Equal(t, "gs://b/a.csv", stored.GCSURI)
}

func TestQueue_ProcessesJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore()
	q := fastQueue(store)
	defer q.Close()

	var seen atomic.Value
	require.NoError(t, q.Start(ctx, func(ctx context.Context, job jobs.Job) error {
		assert.Equal(t, jobs.JobTypeImportCSV, job.GetType())
		seen.Store(job.(*jobs.ImportCSVJob).GCSURI)
		return nil
	}))

	job := &jobs.ImportCSVJob{JobID: "ok", GCSURI: "gs://b/a.csv"}
	require.NoError(t, q.PublishImportCSV(ctx, job))

	done := waitForStatus(t, store, "ok", jobs.JobStatusCompleted)
	assert.Equal(t, "gs://b/a.csv", seen.Load())
	assert.NotNil(t, done.StartedAt)
	assert.NotNil(t, done.CompletedAt)
	assert.Empty(t, done.Error)
}

func TestQueue_RetriesThenSucceeds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore()
	q := fastQueue(store)
	defer q.Close()

	var calls int32
	require.NoError(t, q.Start(ctx, func(ctx context.Context, job jobs.Job) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("transient")
		}
		return nil
	}))

	require.NoError(t, q.PublishImportCSV(ctx, &jobs.ImportCSVJob{JobID: "flaky", GCSURI: "gs://b/a.csv"}))

	done := waitForStatus(t, store, "flaky", jobs.JobStatusCompleted)
	assert.Equal(t, 2, done.RetryCount)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestQueue_GivesUpAfterMaxRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore()
	q := fastQueue(store)
	defer q.Close()

	var calls int32
	require.NoError(t, q.Start(ctx, func(ctx context.Context, job jobs.Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("bad export")
	}))

	require.NoError(t, q.PublishImportCSV(ctx, &jobs.ImportCSVJob{JobID: "bad", GCSURI: "gs://b/a.csv", MaxRetries: 1}))

	failed := waitForStatus(t, store, "bad", jobs.JobStatusFailed)
	assert.Equal(t, "bad export", failed.Error)
	assert.Equal(t, 1, failed.RetryCount)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestQueue_PermanentErrorIsNotRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore()
	q := fastQueue(store)
	defer q.Close()

	var calls int32
	require.NoError(t, q.Start(ctx, func(ctx context.Context, job jobs.Job) error {
		atomic.AddInt32(&calls, 1)
		return jobs.Permanent(errors.New("no dated rows"))
	}))

	require.NoError(t, q.PublishImportCSV(ctx, &jobs.ImportCSVJob{JobID: "empty", GCSURI: "gs://b/a.csv", MaxRetries: 3}))

	failed := waitForStatus(t, store, "empty", jobs.JobStatusFailed)
	assert.Equal(t, "no dated rows", failed.Error)
	assert.Equal(t, 0, failed.RetryCount)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestQueue_Closed(t *testing.T) {
	q := fastQueue(nil)
	require.NoError(t, q.Stop(context.Background()))
	require.NoError(t, q.Stop(context.Background()))

	err := q.PublishImportCSV(context.Background(), &jobs.ImportCSVJob{GCSURI: "gs://b/a.csv"})
	assert.ErrorIs(t, err, jobs.ErrQueueClosed)
	assert.ErrorIs(t, q.Start(context.Background(), func(context.Context, jobs.Job) error { return nil }), jobs.ErrQueueClosed)
}
