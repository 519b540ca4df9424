package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string          { return &s }
func intPtr(i int) *int                { return &i }
func statusPtr(s JobStatus) *JobStatus { return &s }

func TestNewSubmissionJob(t *testing.T) {
	job := NewSubmissionJob("job_123")

	assert.Equal(t, "job_123", job.JobID)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 0, job.Progress)
	assert.Empty(t, job.Errors)
	assert.Nil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)
	assert.WithinDuration(t, time.Now(), job.CreatedAt, time.Second)
}

func TestApplyStampsStartedAtOnce(t *testing.T) {
	job := NewSubmissionJob("job_123")

	job.Apply(JobUpdate{Status: statusPtr(JobStatusProcessing), Progress: intPtr(10)})
	assert.NotNil(t, job.StartedAt)
	first := *job.StartedAt

	job.Apply(JobUpdate{Status: statusPtr(JobStatusProcessing), Progress: intPtr(30)})
	assert.Equal(t, first, *job.StartedAt)
	assert.Equal(t, 30, job.Progress)
}

func TestApplyTerminalStatusStampsCompletedAt(t *testing.T) {
	job := NewSubmissionJob("job_123")

	job.Apply(JobUpdate{
		Status:        statusPtr(JobStatusCompleted),
		Message:       strPtr("done"),
		Progress:      intPtr(100),
		ProcessedRows: intPtr(50),
	})

	assert.NotNil(t, job.CompletedAt)
	assert.Equal(t, "done", job.Message)
	assert.Equal(t, 50, job.ProcessedRows)
	assert.True(t, job.Status.Terminal())
}

func TestApplyLeavesUnsetFieldsAlone(t *testing.T) {
	job := NewSubmissionJob("job_123")
	job.Apply(JobUpdate{Message: strPtr("reading file"), TotalRows: intPtr(42)})

	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, "reading file", job.Message)
	assert.Equal(t, 42, job.TotalRows)
	assert.Equal(t, 0, job.Progress)
}

func TestApplyErrors(t *testing.T) {
	job := NewSubmissionJob("job_123")
	job.Apply(JobUpdate{
		Status: statusPtr(JobStatusFailed),
		Errors: []string{"row 9: account code is required"},
	})

	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Len(t, job.Errors, 1)
}
