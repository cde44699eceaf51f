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

type ChallengeRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ChallengeRepository
}

func (s *ChallengeRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewChallengeRepository(s.db)
}

func (s *ChallengeRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ChallengeRepositorySuite) completedSession(owner models.Owner, questions, correct int, timed bool, answers ...models.ChallengeAnswer) int64 {
	ctx := context.Background()
	id, err := s.repo.InsertSession(ctx, models.ChallengeSession{Owner: owner, QuestionCount: questions, TimerEnabled: timed})
	s.Require().NoError(err)
	for _, a := range answers {
		a.SessionID = id
		_, err := s.repo.InsertAnswer(ctx, a)
		s.Require().NoError(err)
	}
	done := time.Now().UTC()
	s.Require().NoError(s.repo.UpdateSession(ctx, models.ChallengeSession{
		ID: id, Answered: questions, Correct: correct, BestStreak: correct, CompletedAt: &done,
	}))
	return id
}

func (s *ChallengeRepositorySuite) TestInsertAndGetSession() {
	ctx := context.Background()

	id, err := s.repo.InsertSession(ctx, models.ChallengeSession{
		Owner: models.ProfileOwner(3), QuestionCount: 10, TimerEnabled: true,
	})
	s.Require().NoError(err)
	s.Assert().Greater(id, int64(0))

	got, err := s.repo.GetSession(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(models.ProfileOwner(3), got.Owner)
	s.Assert().Equal(10, got.QuestionCount)
	s.Assert().True(got.TimerEnabled)
	s.Assert().False(got.IsReview)
	s.Assert().Nil(got.CompletedAt)
}

func (s *ChallengeRepositorySuite) TestGetSession_NotFound() {
	got, err := s.repo.GetSession(context.Background(), 12345)
	s.Assert().NoError(err)
	s.Assert().Nil(got)
}

func (s *ChallengeRepositorySuite) TestUpdateSession() {
	ctx := context.Background()
	id := s.completedSession(models.AnonymousOwner, 5, 4, false)

	got, err := s.repo.GetSession(ctx, id)
	s.Require().NoError(err)
	s.Assert().Equal(5, got.Answered)
	s.Assert().Equal(4, got.Correct)
	s.Assert().NotNil(got.CompletedAt)

	err = s.repo.UpdateSession(ctx, models.ChallengeSession{ID: 9999})
	s.Assert().ErrorIs(err, repository.ErrNotFound)
}

func (s *ChallengeRepositorySuite) TestWrongAnswers() {
	ctx := context.Background()
	id := s.completedSession(models.AnonymousOwner, 3, 1, false,
		models.ChallengeAnswer{Multiplicand: 7, Multiplier: 8, Given: 54, WasCorrect: false},
		models.ChallengeAnswer{Multiplicand: 2, Multiplier: 3, Given: 6, WasCorrect: true},
		models.ChallengeAnswer{Multiplicand: 6, Multiplier: 9, Given: 56, WasCorrect: false},
	)

	wrong, err := s.repo.WrongAnswers(ctx, id)
	s.Require().NoError(err)
	s.Require().Len(wrong, 2)
	s.Assert().Equal(7, wrong[0].Multiplicand)
	s.Assert().Equal(56, wrong[0].Expected())
	s.Assert().Equal(6, wrong[1].Multiplicand)
}

func (s *ChallengeRepositorySuite) TestGetStats_NeverRefreshed() {
	stats, err := s.repo.GetStats(context.Background(), models.AnonymousOwner)
	s.Require().NoError(err)
	s.Assert().Nil(stats.RefreshedAt)
	s.Assert().Zero(stats.Sessions)
	s.Assert().Empty(stats.Tables)
}

func (s *ChallengeRepositorySuite) TestRefreshStats() {
	ctx := context.Background()
	owner := models.ProfileOwner(1)

	s.completedSession(owner, 2, 2, true,
		models.ChallengeAnswer{Multiplicand: 3, Multiplier: 4, Given: 12, WasCorrect: true},
		models.ChallengeAnswer{Multiplicand: 5, Multiplier: 5, Given: 25, WasCorrect: true},
	)
	s.completedSession(owner, 2, 1, false,
		models.ChallengeAnswer{Multiplicand: 3, Multiplier: 7, Given: 20, WasCorrect: false},
		models.ChallengeAnswer{Multiplicand: 5, Multiplier: 2, Given: 10, WasCorrect: true},
	)
	// another owner's and unfinished sessions are ignored
	s.completedSession(models.ProfileOwner(2), 4, 4, true)
	_, err := s.repo.InsertSession(ctx, models.ChallengeSession{Owner: owner, QuestionCount: 10})
	s.Require().NoError(err)

	s.Require().NoError(s.repo.RefreshStats(ctx, owner))

	stats, err := s.repo.GetStats(ctx, owner)
	s.Require().NoError(err)
	s.Require().NotNil(stats.RefreshedAt)
	s.Assert().Equal(2, stats.Sessions)
	s.Assert().Equal(1, stats.PerfectSessions)
	s.Assert().Equal(1, stats.TimedSessions)
	s.Assert().Equal(4, stats.QuestionsAnswered)
	s.Assert().Equal(3, stats.CorrectAnswers)
	s.Assert().InDelta(75.0, stats.Accuracy, 0.001)
	s.Assert().Equal(2, stats.BestStreak)

	s.Require().Len(stats.Tables, 2)
	s.Assert().Equal(3, stats.Tables[0].Table)
	s.Assert().Equal(2, stats.Tables[0].Answered)
	s.Assert().Equal(1, stats.Tables[0].Correct)
	s.Assert().InDelta(50.0, stats.Tables[0].Accuracy, 0.001)
	s.Assert().Equal(5, stats.Tables[1].Table)
	s.Assert().InDelta(100.0, stats.Tables[1].Accuracy, 0.001)

	// refreshing again replaces rather than accumulates
	s.Require().NoError(s.repo.RefreshStats(ctx, owner))
	again, err := s.repo.GetStats(ctx, owner)
	s.Require().NoError(err)
	s.Assert().Equal(2, again.Sessions)
	s.Assert().Len(again.Tables, 2)
}

func TestChallengeRepositorySuite(t *testing.T) {
	suite.Run(t, new(ChallengeRepositorySuite))
}
