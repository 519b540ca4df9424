package jobs

import (
	"context"
	"sync"

	"github.com/DanielFlorido/ledgerload/internal/apierror"
	"github.com/DanielFlorido/ledgerload/model"
)

// MemoryStore is a process-local Store. Jobs created here do not
// survive a restart; use the table-backed store when that matters.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*model.SubmissionJob
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*model.SubmissionJob)}
}

func (s *MemoryStore) CreateJob(_ context.Context, job *model.SubmissionJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.JobID]; exists {
		return apierror.NewAPIError(apierror.ErrConflict, "Job already exists", nil)
	}
	s.jobs[job.JobID] = snapshot(job)
	return nil
}

func (s *MemoryStore) UpdateJob(_ context.Context, jobID string, update model.JobUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return apierror.NewAPIError(apierror.ErrNotFound, "Job not found", nil)
	}
	job.Apply(update)
	return nil
}

// GetJob returns a copy, so callers can never mutate tracked state.
func (s *MemoryStore) GetJob(_ context.Context, jobID string) (*model.SubmissionJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "Job not found", nil)
	}
	return snapshot(job), nil
}

func (s *MemoryStore) DeleteJob(_ context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[jobID]; !ok {
		return apierror.NewAPIError(apierror.ErrNotFound, "Job not found", nil)
	}
	delete(s.jobs, jobID)
	return nil
}

func snapshot(job *model.SubmissionJob) *model.SubmissionJob {
	copied := *job
	copied.Errors = append([]string{}, job.Errors...)
	if job.StartedAt != nil {
		startedAt := *job.StartedAt
		copied.StartedAt = &startedAt
	}
	if job.CompletedAt != nil {
		completedAt := *job.CompletedAt
		copied.CompletedAt = &completedAt
	}
	return &copied
}
