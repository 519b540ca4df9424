package ledgerload

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/DanielFlorido/ledgerload/model"
)

// Progress stamps for the submission stages.
const (
	progressReading   = 10
	progressParsed    = 30
	progressValidated = 40
	progressResolving = 50
	progressSaving    = 60
	progressDone      = 100
)

// runSubmission is the worker loop shared by both pipelines: one
// goroutine per submission, no cross-job synchronization. The uploaded
// temp file is removed on every exit path, and a panic anywhere in the
// pipeline marks the job failed instead of killing the process.
func (l *Ledgerload) runSubmission(jobID, tempFile string, work func(ctx context.Context) error) {
	ctx := context.Background()

	defer func() {
		if tempFile != "" {
			if err := os.Remove(tempFile); err != nil && !os.IsNotExist(err) {
				logrus.WithError(err).WithField("file", tempFile).Warn("failed to remove uploaded file")
			}
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("job_id", jobID).Errorf("submission worker panicked: %v", r)
			l.failJob(ctx, jobID, fmt.Sprintf("internal error: %v", r), nil)
		}
	}()

	if err := work(ctx); err != nil {
		logrus.WithError(err).WithField("job_id", jobID).Error("submission failed")
	}
}

// updateStage advances a job to the given status, progress and message.
// Tracker failures are logged and swallowed: diagnostics must never
// abort a running submission.
func (l *Ledgerload) updateStage(ctx context.Context, jobID string, status model.JobStatus, progress int, message string) {
	err := l.jobs.UpdateJob(ctx, jobID, model.JobUpdate{
		Status:   &status,
		Progress: &progress,
		Message:  &message,
	})
	if err != nil {
		logrus.WithError(err).WithField("job_id", jobID).Warn("failed to update job stage")
	}
}

// failJob marks a job failed with an error list. Returns the message
// as an error for the worker's log line.
func (l *Ledgerload) failJob(ctx context.Context, jobID, message string, errs []string) error {
	status := model.JobStatusFailed
	update := model.JobUpdate{
		Status:  &status,
		Message: &message,
	}
	if len(errs) > 0 {
		update.Errors = errs
	} else {
		update.Errors = []string{message}
	}
	if err := l.jobs.UpdateJob(ctx, jobID, update); err != nil {
		logrus.WithError(err).WithField("job_id", jobID).Warn("failed to mark job failed")
	}
	return fmt.Errorf("%s", message)
}

// completeJob marks a job completed with its result payload.
func (l *Ledgerload) completeJob(ctx context.Context, jobID, message string, processedRows int, result interface{}) {
	status := model.JobStatusCompleted
	progress := progressDone
	err := l.jobs.UpdateJob(ctx, jobID, model.JobUpdate{
		Status:        &status,
		Progress:      &progress,
		Message:       &message,
		ProcessedRows: &processedRows,
		Result:        result,
	})
	if err != nil {
		logrus.WithError(err).WithField("job_id", jobID).Warn("failed to mark job completed")
	}
}

// recordAudit writes the submission outcome to the audit log. Failures
// are logged and swallowed; the audit trail never changes a result.
func (l *Ledgerload) recordAudit(ctx context.Context, entry model.AuditEntry) {
	if err := l.datasource.RecordAudit(ctx, entry); err != nil {
		logrus.WithError(err).Warn("failed to write audit log entry")
	}
}
