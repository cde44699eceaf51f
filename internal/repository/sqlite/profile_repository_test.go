package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/repository"
	"github.com/vytor/timestables/internal/repository/sqlite"
	"github.com/vytor/timestables/internal/testutil"
)

type ProfileRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ProfileRepository
}

func (s *ProfileRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProfileRepository(s.db)
}

func (s *ProfileRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProfileRepositorySuite) TestCreateAndGet() {
	ctx := context.Background()

	created, err := s.repo.Create(ctx, models.Profile{Name: "Léa", Theme: "heroes", Gender: "girl"})
	s.Require().NoError(err)
	s.Assert().Greater(created.ID, int64(0))
	s.Assert().False(created.CreatedAt.IsZero())

	got, err := s.repo.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("Léa", got.Name)
	s.Assert().Equal("heroes", got.Theme)
	s.Assert().Equal("girl", got.Gender)
}

func (s *ProfileRepositorySuite) TestCreate_DuplicateName() {
	ctx := context.Background()

	_, err := s.repo.Create(ctx, models.Profile{Name: "Tom", Theme: "space"})
	s.Require().NoError(err)

	_, err = s.repo.Create(ctx, models.Profile{Name: "Tom", Theme: "animals"})
	s.Assert().ErrorIs(err, repository.ErrDuplicate)
}

func (s *ProfileRepositorySuite) TestGet_NotFound() {
	got, err := s.repo.Get(context.Background(), 99999)
	s.Assert().NoError(err)
	s.Assert().Nil(got)
}

func (s *ProfileRepositorySuite) TestList() {
	ctx := context.Background()

	empty, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Assert().Empty(empty)

	for _, name := range []string{"A", "B", "C"} {
		_, err := s.repo.Create(ctx, models.Profile{Name: name, Theme: "space"})
		s.Require().NoError(err)
	}

	profiles, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(profiles, 3)
	s.Assert().Equal("A", profiles[0].Name)
	s.Assert().Equal("C", profiles[2].Name)
}

func (s *ProfileRepositorySuite) TestUpdateSettings() {
	ctx := context.Background()

	created, err := s.repo.Create(ctx, models.Profile{Name: "Sam", Theme: "space"})
	s.Require().NoError(err)

	s.Require().NoError(s.repo.UpdateSettings(ctx, created.ID, "animals", "boy"))

	got, err := s.repo.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Assert().Equal("animals", got.Theme)
	s.Assert().Equal("boy", got.Gender)

	err = s.repo.UpdateSettings(ctx, 424242, "space", "")
	s.Assert().ErrorIs(err, repository.ErrNotFound)
}

func (s *ProfileRepositorySuite) TestDelete_RemovesChallengeHistory() {
	ctx := context.Background()

	created, err := s.repo.Create(ctx, models.Profile{Name: "Zoé", Theme: "space"})
	s.Require().NoError(err)
	owner := models.ProfileOwner(created.ID)

	challenges := sqlite.NewChallengeRepository(s.db)
	sessionID, err := challenges.InsertSession(ctx, models.ChallengeSession{Owner: owner, QuestionCount: 5})
	s.Require().NoError(err)
	_, err = challenges.InsertAnswer(ctx, models.ChallengeAnswer{SessionID: sessionID, Multiplicand: 3, Multiplier: 4, Given: 12, WasCorrect: true})
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Delete(ctx, created.ID))

	got, err := s.repo.Get(ctx, created.ID)
	s.Require().NoError(err)
	s.Assert().Nil(got)

	session, err := challenges.GetSession(ctx, sessionID)
	s.Require().NoError(err)
	s.Assert().Nil(session)

	var answers int
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM challenge_answers`).Scan(&answers))
	s.Assert().Zero(answers)
}

func TestProfileRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProfileRepositorySuite))
}
