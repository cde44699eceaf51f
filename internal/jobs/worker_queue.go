package jobs

import (
	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/repository"
	"github.com/vytor/timestables/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	statsPool  *worker.Pool
	challenges repository.ChallengeRepository
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(statsPool *worker.Pool, challenges repository.ChallengeRepository) JobQueue {
	return &WorkerQueue{
		statsPool:  statsPool,
		challenges: challenges,
	}
}

func (q *WorkerQueue) EnqueueStatsRefresh(owner models.Owner) error {
	return q.statsPool.Submit(&worker.RefreshStatsJob{
		Challenges: q.challenges,
		Owner:      owner,
	})
}
