package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/DanielFlorido/ledgerload/internal/apierror"
	"github.com/DanielFlorido/ledgerload/model"
)

func jobColumns() []string {
	return []string{
		"job_id", "status", "message", "progress", "total_rows", "processed_rows",
		"errors", "result", "created_at", "updated_at", "started_at", "completed_at",
	}
}

func TestCreateJob(t *testing.T) {
	d, mock := newTestDatasource(t)
	job := model.NewSubmissionJob("job_123")

	mock.ExpectExec("INSERT INTO ledgerload.jobs").
		WithArgs(job.JobID, string(job.Status), job.Message, job.Progress,
			job.TotalRows, job.ProcessedRows, []byte(`[]`),
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := d.CreateJob(context.Background(), job)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetJob(t *testing.T) {
	d, mock := newTestDatasource(t)
	now := time.Now()

	mock.ExpectQuery("FROM ledgerload.jobs").
		WithArgs("job_123").
		WillReturnRows(sqlmock.NewRows(jobColumns()).AddRow(
			"job_123", "processing", "reading spreadsheet", 30, 50, 0,
			[]byte(`["some earlier warning"]`), nil, now, now, now, nil,
		))

	job, err := d.GetJob(context.Background(), "job_123")
	assert.NoError(t, err)
	assert.Equal(t, model.JobStatusProcessing, job.Status)
	assert.Equal(t, 30, job.Progress)
	assert.Equal(t, []string{"some earlier warning"}, job.Errors)
	assert.NotNil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetJobNotFound(t *testing.T) {
	d, mock := newTestDatasource(t)

	mock.ExpectQuery("FROM ledgerload.jobs").
		WithArgs("job_missing").
		WillReturnRows(sqlmock.NewRows(jobColumns()))

	_, err := d.GetJob(context.Background(), "job_missing")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}

func TestUpdateJob(t *testing.T) {
	d, mock := newTestDatasource(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("job_123").
		WillReturnRows(sqlmock.NewRows(jobColumns()).AddRow(
			"job_123", "pending", "Job created, waiting for processing", 0, 0, 0,
			[]byte(`[]`), nil, now, now, nil, nil,
		))
	mock.ExpectExec("UPDATE ledgerload.jobs").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	status := model.JobStatusProcessing
	progress := 10
	err := d.UpdateJob(context.Background(), "job_123", model.JobUpdate{
		Status:   &status,
		Progress: &progress,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateJobUnknownID(t *testing.T) {
	d, mock := newTestDatasource(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("job_missing").
		WillReturnRows(sqlmock.NewRows(jobColumns()))
	mock.ExpectRollback()

	status := model.JobStatusCompleted
	err := d.UpdateJob(context.Background(), "job_missing", model.JobUpdate{Status: &status})
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteJob(t *testing.T) {
	d, mock := newTestDatasource(t)

	mock.ExpectExec("DELETE FROM ledgerload.jobs").
		WithArgs("job_123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := d.DeleteJob(context.Background(), "job_123")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteJobNotFound(t *testing.T) {
	d, mock := newTestDatasource(t)

	mock.ExpectExec("DELETE FROM ledgerload.jobs").
		WithArgs("job_missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := d.DeleteJob(context.Background(), "job_missing")
	assert.Error(t, err)
	apiErr, ok := err.(apierror.APIError)
	assert.True(t, ok)
	assert.Equal(t, apierror.ErrNotFound, apiErr.Code)
}
