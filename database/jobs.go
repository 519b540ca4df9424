package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/DanielFlorido/ledgerload/internal/apierror"
	"github.com/DanielFlorido/ledgerload/model"
)

// CreateJob persists a new submission job.
func (d Datasource) CreateJob(ctx context.Context, job *model.SubmissionJob) error {
	errorsJSON, err := json.Marshal(job.Errors)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal job errors", err)
	}

	_, err = d.Conn.ExecContext(ctx, `
		INSERT INTO ledgerload.jobs
			(job_id, status, message, progress, total_rows, processed_rows,
			errors, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		job.JobID, job.Status, job.Message, job.Progress,
		job.TotalRows, job.ProcessedRows, errorsJSON,
		job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create job", wrapPQError(err))
	}
	return nil
}

// UpdateJob applies a partial-field merge inside a transaction: the
// current row is locked, merged and written back, so concurrent status
// polls never observe a half-applied update.
func (d Datasource) UpdateJob(ctx context.Context, jobID string, update model.JobUpdate) error {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}

	job, err := scanJob(tx.QueryRowContext(ctx, jobSelectSQL+` FOR UPDATE`, jobID))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	job.Apply(update)

	errorsJSON, err := json.Marshal(job.Errors)
	if err != nil {
		_ = tx.Rollback()
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal job errors", err)
	}
	var resultJSON []byte
	if job.Result != nil {
		resultJSON, err = json.Marshal(job.Result)
		if err != nil {
			_ = tx.Rollback()
			return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal job result", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE ledgerload.jobs
		SET status = $2, message = $3, progress = $4, total_rows = $5,
			processed_rows = $6, errors = $7, result = $8,
			updated_at = $9, started_at = $10, completed_at = $11
		WHERE job_id = $1
	`,
		job.JobID, job.Status, job.Message, job.Progress,
		job.TotalRows, job.ProcessedRows, errorsJSON, resultJSON,
		job.UpdatedAt, job.StartedAt, job.CompletedAt,
	)
	if err != nil {
		_ = tx.Rollback()
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update job", err)
	}

	if err := tx.Commit(); err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to commit job update", err)
	}
	return nil
}

const jobSelectSQL = `
	SELECT job_id, status, message, progress, total_rows, processed_rows,
		errors, result, created_at, updated_at, started_at, completed_at
	FROM ledgerload.jobs
	WHERE job_id = $1`

// GetJob retrieves a job snapshot.
func (d Datasource) GetJob(ctx context.Context, jobID string) (*model.SubmissionJob, error) {
	return scanJob(d.Conn.QueryRowContext(ctx, jobSelectSQL, jobID))
}

// DeleteJob removes a job. Deleting an unknown id is a not-found
// error, matching the memory store.
func (d Datasource) DeleteJob(ctx context.Context, jobID string) error {
	res, err := d.Conn.ExecContext(ctx, `
		DELETE FROM ledgerload.jobs WHERE job_id = $1
	`, jobID)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to delete job", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to delete job", err)
	}
	if affected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Job not found", nil)
	}
	return nil
}

func scanJob(row *sql.Row) (*model.SubmissionJob, error) {
	job := model.SubmissionJob{}
	var errorsJSON, resultJSON []byte

	err := row.Scan(
		&job.JobID, &job.Status, &job.Message, &job.Progress,
		&job.TotalRows, &job.ProcessedRows, &errorsJSON, &resultJSON,
		&job.CreatedAt, &job.UpdatedAt, &job.StartedAt, &job.CompletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Job not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve job", err)
	}

	if err := json.Unmarshal(errorsJSON, &job.Errors); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal job errors", err)
	}
	if len(resultJSON) > 0 {
		var result interface{}
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal job result", err)
		}
		job.Result = result
	}

	return &job, nil
}
