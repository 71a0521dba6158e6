package scheduler

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJobs struct {
	purged   int
	swept    int
	purgeErr error
}

func (f *fakeJobs) PurgeExpiredResetTokens() (int64, error) {
	f.purged++
	return 2, f.purgeErr
}

func (f *fakeJobs) SweepOrphanedUploads() (int, error) {
	f.swept++
	return 1, nil
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(&fakeJobs{}, slog.Default())

	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 2)
	s.Stop()
}

func TestScheduler_JobsCallThrough(t *testing.T) {
	jobs := &fakeJobs{}
	s := New(jobs, slog.Default())

	s.purgeResetTokens()
	s.sweepUploads()
	assert.Equal(t, 1, jobs.purged)
	assert.Equal(t, 1, jobs.swept)

	jobs.purgeErr = errors.New("db down")
	s.purgeResetTokens()
	assert.Equal(t, 2, jobs.purged)
}
