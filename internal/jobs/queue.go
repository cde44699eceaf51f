package jobs

import "github.com/vytor/timestables/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueStatsRefresh(owner models.Owner) error
}
