package services

import (
	"context"

	"github.com/vytor/timestables/internal/errors"
	"github.com/vytor/timestables/internal/logger"
	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/repository"
	"github.com/vytor/timestables/internal/rewards"
	"github.com/vytor/timestables/internal/store"
	"golang.org/x/sync/errgroup"
)

// ProgressView is an owner's reward progress as shown on the progress page.
type ProgressView struct {
	Progress  models.Progress
	Theme     rewards.Theme
	Gender    rewards.Gender
	NextBadge *rewards.NextBadgeInfo
}

// ProgressService exposes reward progress and challenge statistics
type ProgressService interface {
	GetProgress(ctx context.Context, owner models.Owner) (*ProgressView, error)
	GetStats(ctx context.Context, owner models.Owner) (*models.ChallengeStats, error)
}

type progressService struct {
	stores        *store.Registry
	profileRepo   repository.ProfileRepository
	challengeRepo repository.ChallengeRepository
	defaultTheme  rewards.Theme
}

// NewProgressService creates a new ProgressService
func NewProgressService(stores *store.Registry, profileRepo repository.ProfileRepository, challengeRepo repository.ChallengeRepository, defaultTheme rewards.Theme) ProgressService {
	return &progressService{
		stores:        stores,
		profileRepo:   profileRepo,
		challengeRepo: challengeRepo,
		defaultTheme:  defaultTheme,
	}
}

// GetProgress reads through the owner's store so that rewards committed in
// this process are visible even when their write failed.
func (s *progressService) GetProgress(ctx context.Context, owner models.Owner) (*ProgressView, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting progress: owner=%s", owner)

	var (
		lk       look
		progress models.Progress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l, err := resolveLook(gctx, s.profileRepo, owner, s.defaultTheme)
		if err != nil {
			return err
		}
		lk = l
		return nil
	})
	g.Go(func() error {
		st, err := s.stores.Get(gctx, owner)
		if err != nil {
			log.Error("failed to load progress: %v", err)
			return errors.NewInternalError(err)
		}
		progress = st.GetState().Progress
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ProgressView{
		Progress:  progress,
		Theme:     lk.Theme,
		Gender:    lk.Gender,
		NextBadge: rewards.NextBadgeInfoFor(lk.Theme, progress.TotalChallengesCompleted, lk.Gender),
	}, nil
}

func (s *progressService) GetStats(ctx context.Context, owner models.Owner) (*models.ChallengeStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting challenge stats: owner=%s", owner)

	stats, err := s.challengeRepo.GetStats(ctx, owner)
	if err != nil {
		log.Error("failed to get challenge stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return stats, nil
}
