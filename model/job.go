package model

import (
	"time"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusValidating JobStatus = "validating"
	JobStatusSaving     JobStatus = "saving"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status ends the job's lifecycle.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// SubmissionJob tracks one asynchronous processing request. It is
// mutated only through a jobs store; callers receive snapshots.
type SubmissionJob struct {
	JobID         string      `json:"job_id"`
	Status        JobStatus   `json:"status"`
	Message       string      `json:"message"`
	Progress      int         `json:"progress"`
	TotalRows     int         `json:"total_rows"`
	ProcessedRows int         `json:"processed_rows"`
	Errors        []string    `json:"errors"`
	Result        interface{} `json:"result,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	StartedAt     *time.Time  `json:"started_at,omitempty"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty"`
}

// JobUpdate is a partial-field merge applied to a SubmissionJob. Nil
// fields are left untouched.
type JobUpdate struct {
	Status        *JobStatus
	Message       *string
	Progress      *int
	TotalRows     *int
	ProcessedRows *int
	Errors        []string
	Result        interface{}
}

// Apply merges the update into the job and stamps the lifecycle
// timestamps: the first transition to processing sets StartedAt, a
// terminal status sets CompletedAt.
func (j *SubmissionJob) Apply(update JobUpdate) {
	now := time.Now()

	if update.Status != nil {
		j.Status = *update.Status
		if *update.Status == JobStatusProcessing && j.StartedAt == nil {
			j.StartedAt = &now
		}
		if update.Status.Terminal() && j.CompletedAt == nil {
			j.CompletedAt = &now
		}
	}
	if update.Message != nil {
		j.Message = *update.Message
	}
	if update.Progress != nil {
		j.Progress = *update.Progress
	}
	if update.TotalRows != nil {
		j.TotalRows = *update.TotalRows
	}
	if update.ProcessedRows != nil {
		j.ProcessedRows = *update.ProcessedRows
	}
	if update.Errors != nil {
		j.Errors = update.Errors
	}
	if update.Result != nil {
		j.Result = update.Result
	}

	j.UpdatedAt = now
}

// NewSubmissionJob builds a pending job with zero progress.
func NewSubmissionJob(jobID string) *SubmissionJob {
	now := time.Now()
	return &SubmissionJob{
		JobID:     jobID,
		Status:    JobStatusPending,
		Message:   "Job created, waiting for processing",
		Progress:  0,
		Errors:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
