package database

import (
	"context"

	"github.com/DanielFlorido/ledgerload/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	balance  // Interface for general-balance persistence
	cashFlow // Interface for cash-flow persistence
	client   // Interface for client registry lookups
	audit    // Interface for the fire-and-forget audit log
	job      // Interface for the durable job store
	health   // Interface for connection diagnostics
}

// balance defines methods for persisting general-balance submissions.
type balance interface {
	SaveBalanceSubmission(ctx context.Context, rows []model.BalanceRow, date, clientDocument string) (model.BalanceSaveResult, error) // All-or-nothing transactional save
	InsertBalanceRows(ctx context.Context, rows []model.BalanceRow, date, clientDocument string) (model.BulkInsertResult, error)       // Continue-on-error bulk insert
}

// cashFlow defines methods for persisting cash-flow submissions.
type cashFlow interface {
	SaveCashFlow(ctx context.Context, groups []model.CashFlowGroup, date, clientDocument string) (model.CashFlowSaveResult, error) // All-or-nothing multi-group save
}

// client defines methods for resolving external client documents.
type client interface {
	GetClientByDocument(ctx context.Context, document string) (*model.Client, error) // Resolves a client by external document number
}

// audit defines the non-transactional audit-log write.
type audit interface {
	RecordAudit(ctx context.Context, entry model.AuditEntry) error // Records one submission outcome
}

// job defines the durable job-store operations.
type job interface {
	CreateJob(ctx context.Context, job *model.SubmissionJob) error             // Persists a new pending job
	UpdateJob(ctx context.Context, jobID string, update model.JobUpdate) error // Partial-field merge
	GetJob(ctx context.Context, jobID string) (*model.SubmissionJob, error)    // Retrieves a job snapshot
	DeleteJob(ctx context.Context, jobID string) error                         // Removes a job
}

// health defines connection diagnostics.
type health interface {
	TestConnection() HealthCheck // Pings and runs a trivial query
}
