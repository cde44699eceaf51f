package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/repository"
	"github.com/vytor/timestables/internal/repository/sqlite"
	"github.com/vytor/timestables/internal/testutil"
)

type ProgressRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ProgressRepository
}

func (s *ProgressRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProgressRepository(s.db)
}

func (s *ProgressRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProgressRepositorySuite) TestRead_UnknownOwnerIsEmpty() {
	p, err := s.repo.Read(context.Background(), models.AnonymousOwner)
	s.Require().NoError(err)
	s.Assert().Equal(models.AnonymousOwner, p.Owner)
	s.Assert().Zero(p.TotalChallengesCompleted)
	s.Assert().Zero(p.BestStreak)
	s.Assert().Empty(p.Badges)
	s.Assert().Empty(p.Achievements)
	s.Assert().Empty(p.StreakBadges)
	s.Assert().Empty(p.PlayDates)
}

func (s *ProgressRepositorySuite) TestWrite_MergesPartialUpdates() {
	ctx := context.Background()
	owner := models.ProfileOwner(1)
	now := time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)

	s.Require().NoError(s.repo.Write(ctx, owner, models.ProgressUpdate{
		TotalChallengesCompleted: testutil.IntPtr(1),
		AddBadges:                []models.UnlockedBadge{{ID: "space_1", Threshold: 1, Title: "Apprenti Astronaute", Icon: "🧑‍🚀", UnlockedAt: now}},
		AddPlayDates:             []time.Time{now},
	}))
	s.Require().NoError(s.repo.Write(ctx, owner, models.ProgressUpdate{
		BestStreak:      testutil.IntPtr(8),
		AddStreakBadges: []string{"Étoile Filante", "Fusée Turbo"},
	}))

	p, err := s.repo.Read(ctx, owner)
	s.Require().NoError(err)
	s.Assert().Equal(1, p.TotalChallengesCompleted)
	s.Assert().Equal(8, p.BestStreak)
	s.Require().Len(p.Badges, 1)
	s.Assert().Equal("space_1", p.Badges[0].ID)
	s.Assert().True(now.Equal(p.Badges[0].UnlockedAt))
	s.Assert().Equal([]string{"Étoile Filante", "Fusée Turbo"}, p.StreakBadges)
	s.Require().Len(p.PlayDates, 1)
	s.Assert().True(now.Equal(p.PlayDates[0]))
}

func (s *ProgressRepositorySuite) TestWrite_BestStreakNeverDecreases() {
	ctx := context.Background()
	owner := models.AnonymousOwner

	s.Require().NoError(s.repo.Write(ctx, owner, models.ProgressUpdate{BestStreak: testutil.IntPtr(12)}))
	s.Require().NoError(s.repo.Write(ctx, owner, models.ProgressUpdate{BestStreak: testutil.IntPtr(5)}))

	p, err := s.repo.Read(ctx, owner)
	s.Require().NoError(err)
	s.Assert().Equal(12, p.BestStreak)
}

func (s *ProgressRepositorySuite) TestWrite_BadgesAndStreakBadgesAreUnique() {
	ctx := context.Background()
	owner := models.AnonymousOwner
	now := time.Now().UTC()
	badge := models.UnlockedBadge{ID: "space_4", Threshold: 4, Title: "Décollage", Icon: "🚀", UnlockedAt: now}

	for i := 0; i < 2; i++ {
		s.Require().NoError(s.repo.Write(ctx, owner, models.ProgressUpdate{
			AddBadges:       []models.UnlockedBadge{badge},
			AddStreakBadges: []string{"Supernova"},
		}))
	}

	p, err := s.repo.Read(ctx, owner)
	s.Require().NoError(err)
	s.Assert().Len(p.Badges, 1)
	s.Assert().Equal([]string{"Supernova"}, p.StreakBadges)
}

func (s *ProgressRepositorySuite) TestWrite_UpsertsAchievementKeepingFirstUnlock() {
	ctx := context.Background()
	owner := models.AnonymousOwner
	first := time.Date(2024, 6, 3, 7, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	s.Require().NoError(s.repo.Write(ctx, owner, models.ProgressUpdate{
		UpsertAchievements: []models.UnlockedAchievement{{ID: "early_bird", UnlockedAt: first, LastUnlockedAt: &first, Count: 1}},
	}))
	s.Require().NoError(s.repo.Write(ctx, owner, models.ProgressUpdate{
		UpsertAchievements: []models.UnlockedAchievement{{ID: "early_bird", UnlockedAt: second, LastUnlockedAt: &second, Count: 2}},
	}))

	p, err := s.repo.Read(ctx, owner)
	s.Require().NoError(err)
	s.Require().Len(p.Achievements, 1)
	a := p.Achievements[0]
	s.Assert().Equal(2, a.Count)
	s.Assert().True(first.Equal(a.UnlockedAt))
	s.Require().NotNil(a.LastUnlockedAt)
	s.Assert().True(second.Equal(*a.LastUnlockedAt))
}

func (s *ProgressRepositorySuite) TestWrite_EmptyUpdateIsNoop() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Write(ctx, models.AnonymousOwner, models.ProgressUpdate{}))

	var rows int
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM progress`).Scan(&rows))
	s.Assert().Zero(rows)
}

func (s *ProgressRepositorySuite) TestOwnersAreIsolated() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Write(ctx, models.ProfileOwner(1), models.ProgressUpdate{TotalChallengesCompleted: testutil.IntPtr(3)}))

	p, err := s.repo.Read(ctx, models.ProfileOwner(2))
	s.Require().NoError(err)
	s.Assert().Zero(p.TotalChallengesCompleted)
}

func (s *ProgressRepositorySuite) TestDelete() {
	ctx := context.Background()
	owner := models.ProfileOwner(7)
	s.Require().NoError(s.repo.Write(ctx, owner, models.ProgressUpdate{
		TotalChallengesCompleted: testutil.IntPtr(2),
		AddStreakBadges:          []string{"Supernova"},
		AddPlayDates:             []time.Time{time.Now().UTC()},
	}))

	s.Require().NoError(s.repo.Delete(ctx, owner))

	p, err := s.repo.Read(ctx, owner)
	s.Require().NoError(err)
	s.Assert().Zero(p.TotalChallengesCompleted)
	s.Assert().Empty(p.StreakBadges)
	s.Assert().Empty(p.PlayDates)
}

func TestProgressRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProgressRepositorySuite))
}
