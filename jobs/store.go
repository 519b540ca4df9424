package jobs

import (
	"context"
	"fmt"

	"github.com/DanielFlorido/ledgerload/config"
	"github.com/DanielFlorido/ledgerload/database"
	"github.com/DanielFlorido/ledgerload/model"
)

// Store tracks submission jobs for status polling. Implementations
// must be safe for concurrent use: each worker owns one job end to end,
// but polls arrive from other goroutines at any time.
type Store interface {
	CreateJob(ctx context.Context, job *model.SubmissionJob) error
	UpdateJob(ctx context.Context, jobID string, update model.JobUpdate) error
	GetJob(ctx context.Context, jobID string) (*model.SubmissionJob, error)
	DeleteJob(ctx context.Context, jobID string) error
}

// NewStore selects a backend from configuration: the durable
// table-backed store by default, memory for tests and single-process
// setups, redis when polling must work across replicas.
func NewStore(cnf *config.Configuration, ds database.IDataSource) (Store, error) {
	switch cnf.JobStore.Backend {
	case "", "postgres":
		return ds, nil
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(cnf.Redis.Dns)
	default:
		return nil, fmt.Errorf("unknown job store backend %q", cnf.JobStore.Backend)
	}
}
