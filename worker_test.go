package ledgerload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielFlorido/ledgerload/model"
)

func TestRunSubmissionCleansUpTempFile(t *testing.T) {
	service, _, store := newTestService(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "upload.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not really a spreadsheet"), 0o644))

	require.NoError(t, store.CreateJob(ctx, model.NewSubmissionJob("job_test")))
	service.runSubmission("job_test", path, func(ctx context.Context) error {
		return errors.New("boom")
	})

	// Removed even when the pipeline fails.
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRunSubmissionRecoversFromPanic(t *testing.T) {
	service, _, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.CreateJob(ctx, model.NewSubmissionJob("job_test")))

	assert.NotPanics(t, func() {
		service.runSubmission("job_test", "", func(ctx context.Context) error {
			panic("nil map write")
		})
	})

	job, err := store.GetJob(ctx, "job_test")
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, job.Status)
	assert.Contains(t, job.Message, "internal error")
	assert.NotNil(t, job.CompletedAt)
}
