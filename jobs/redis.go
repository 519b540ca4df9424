package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DanielFlorido/ledgerload/internal/apierror"
	"github.com/DanielFlorido/ledgerload/model"
)

const jobKeyPrefix = "ledgerload:job:"

// jobTTL keeps finished jobs around long enough for stragglers to poll
// them without growing the keyspace forever.
const jobTTL = 72 * time.Hour

// RedisStore keeps jobs as JSON values in Redis so status polling
// works when the HTTP surface runs on more than one replica.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(dns string) (*RedisStore, error) {
	opts, err := redis.ParseURL(dns)
	if err != nil {
		return nil, err
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

func (s *RedisStore) CreateJob(ctx context.Context, job *model.SubmissionJob) error {
	return s.write(ctx, job)
}

// UpdateJob reads, merges and writes back. Workers own their job, so
// the read-modify-write is not guarded beyond Redis's own atomicity.
func (s *RedisStore) UpdateJob(ctx context.Context, jobID string, update model.JobUpdate) error {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	job.Apply(update)
	return s.write(ctx, job)
}

func (s *RedisStore) GetJob(ctx context.Context, jobID string) (*model.SubmissionJob, error) {
	payload, err := s.client.Get(ctx, jobKeyPrefix+jobID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Job not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve job", err)
	}

	job := model.SubmissionJob{}
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal job", err)
	}
	return &job, nil
}

func (s *RedisStore) DeleteJob(ctx context.Context, jobID string) error {
	deleted, err := s.client.Del(ctx, jobKeyPrefix+jobID).Result()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to delete job", err)
	}
	if deleted == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "Job not found", nil)
	}
	return nil
}

func (s *RedisStore) write(ctx context.Context, job *model.SubmissionJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal job", err)
	}
	if err := s.client.Set(ctx, jobKeyPrefix+job.JobID, payload, jobTTL).Err(); err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to store job", err)
	}
	return nil
}
