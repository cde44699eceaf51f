package worker

import (
	"context"

	"github.com/vytor/timestables/internal/logger"
	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/repository"
)

// RefreshStatsJob recomputes the cached challenge statistics of one owner.
type RefreshStatsJob struct {
	Challenges repository.ChallengeRepository
	Owner      models.Owner
}

func (j *RefreshStatsJob) Name() string { return "refresh_stats" }

func (j *RefreshStatsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("owner", j.Owner.String())
	log.Debug("refreshing cached stats")
	if err := j.Challenges.RefreshStats(ctx, j.Owner); err != nil {
		log.Warn("failed to refresh cached stats: %v", err)
		return err
	}
	return nil
}
