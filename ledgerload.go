package ledgerload

import (
	"context"
	"embed"

	"github.com/DanielFlorido/ledgerload/database"
	"github.com/DanielFlorido/ledgerload/jobs"
	"github.com/DanielFlorido/ledgerload/model"
)

// SQLFiles carries the schema migrations applied by `ledgerload
// migrate up`.
//
//go:embed sql/*.sql
var SQLFiles embed.FS

// Ledgerload is the service layer: it owns the datasource and the job
// store and runs submission workers. One instance serves the whole
// process.
type Ledgerload struct {
	datasource database.IDataSource
	jobs       jobs.Store
}

func NewLedgerload(ds database.IDataSource, store jobs.Store) (*Ledgerload, error) {
	return &Ledgerload{datasource: ds, jobs: store}, nil
}

// GetJob returns the current snapshot of a submission job.
func (l *Ledgerload) GetJob(ctx context.Context, jobID string) (*model.SubmissionJob, error) {
	return l.jobs.GetJob(ctx, jobID)
}

// DeleteJob removes a submission job. Jobs are never deleted
// automatically; this is the manual cleanup path.
func (l *Ledgerload) DeleteJob(ctx context.Context, jobID string) error {
	return l.jobs.DeleteJob(ctx, jobID)
}

// HealthCheck reports whether the datasource can serve queries.
func (l *Ledgerload) HealthCheck() database.HealthCheck {
	return l.datasource.TestConnection()
}
