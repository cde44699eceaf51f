package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/rewards"
	"github.com/vytor/timestables/internal/store"
)

func firstPhrase(int) int { return 0 }

func wednesday(hour int) time.Time {
	return time.Date(2024, 6, 5, hour, 0, 0, 0, time.UTC)
}

func emptyState() store.State {
	return store.State{
		Owner:    models.AnonymousOwner,
		Progress: models.Progress{Owner: models.AnonymousOwner},
	}
}

func reduce(t *testing.T, s store.State, a store.Action) (store.State, []models.ProgressUpdate) {
	t.Helper()
	next, updates, err := store.Reduce(s, a, firstPhrase)
	require.NoError(t, err)
	return next, updates
}

func answerAll(t *testing.T, s store.State, correct ...bool) store.State {
	t.Helper()
	for _, c := range correct {
		s, _ = reduce(t, s, store.AnswerSubmitted{Correct: c})
	}
	return s
}

func repeat(v bool, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestReduce_FullChallengeFlow(t *testing.T) {
	s, updates := reduce(t, emptyState(), store.StartChallenge{
		SessionID: 1, QuestionCount: 5, TimerEnabled: true, Theme: rewards.ThemeSpace,
	})
	assert.Empty(t, updates)
	assert.Equal(t, store.PhasePlaying, s.Phase)

	s = answerAll(t, s, true, true, true)
	s, updates = reduce(t, s, store.AnswerSubmitted{Correct: true})
	require.NotNil(t, s.LastAnswer)
	assert.Equal(t, "4 bonnes réponses d'affilée, bien joué !", s.LastAnswer.Streak.MessageToast)
	assert.Equal(t, "Étoile Filante", s.LastAnswer.Streak.BadgeUnlocked)
	require.Len(t, updates, 1)
	assert.Equal(t, []string{"Étoile Filante"}, updates[0].AddStreakBadges)
	require.NotNil(t, updates[0].BestStreak)
	assert.Equal(t, 4, *updates[0].BestStreak)

	s, _ = reduce(t, s, store.AnswerSubmitted{Correct: true})
	assert.Equal(t, "Sans faute, tout le défi est juste !", s.LastAnswer.Streak.MessageToast)
	assert.Equal(t, "Galaxie Parfaite", s.LastAnswer.Streak.BadgeUnlocked)
	assert.Equal(t, []string{"Étoile Filante", "Galaxie Parfaite"}, s.Progress.StreakBadges)
	assert.Equal(t, 5, s.Progress.BestStreak)
	assert.Equal(t, 100, s.Session.ScorePercent())

	s, updates = reduce(t, s, store.ChallengeCompleted{Now: wednesday(14)})
	assert.Equal(t, store.PhaseShowingRewards, s.Phase)
	assert.Nil(t, s.LastAnswer)
	require.Len(t, updates, 1)
	require.NotNil(t, updates[0].TotalChallengesCompleted)
	assert.Equal(t, 1, *updates[0].TotalChallengesCompleted)
	assert.Equal(t, []time.Time{wednesday(14)}, updates[0].AddPlayDates)
	assert.Equal(t, 1, s.Progress.TotalChallengesCompleted)

	queue := s.Presentation.Result().Queue
	require.Len(t, queue, 3)
	assert.Equal(t, rewards.RewardLevelBadge, queue[0].Type)
	assert.Equal(t, rewards.AchievementTimeMaster, queue[1].AchievementID)
	assert.Equal(t, rewards.AchievementPerfectScore, queue[2].AchievementID)
	assert.Empty(t, s.Progress.Badges, "rewards are only stored once dismissed")

	s, updates = reduce(t, s, store.RewardDismissed{})
	require.Len(t, updates, 1)
	require.Len(t, updates[0].AddBadges, 1)
	assert.Equal(t, "space_1", updates[0].AddBadges[0].ID)
	assert.Len(t, s.Progress.Badges, 1)
	assert.Equal(t, 2, s.Presentation.Remaining())

	s, _ = reduce(t, s, store.RewardDismissed{})
	s, updates = reduce(t, s, store.RewardDismissed{})
	require.Len(t, updates, 1)
	require.Len(t, updates[0].UpsertAchievements, 1)
	assert.Equal(t, rewards.AchievementPerfectScore, updates[0].UpsertAchievements[0].ID)
	assert.Equal(t, store.PhaseFinished, s.Phase)
	assert.Len(t, s.Progress.Achievements, 2)

	_, _, err := store.Reduce(s, store.RewardDismissed{}, firstPhrase)
	assert.ErrorIs(t, err, store.ErrInvalidAction)
}

func TestReduce_WrongAnswerResetsAnnouncedTier(t *testing.T) {
	s, _ := reduce(t, emptyState(), store.StartChallenge{QuestionCount: 20, Theme: rewards.ThemeHeroes})

	s = answerAll(t, s, repeat(true, 4)...)
	assert.Equal(t, rewards.Tier4, s.Session.LastTierShown)
	assert.Equal(t, "Coup de Poing", s.LastAnswer.Streak.BadgeUnlocked)

	s, updates := reduce(t, s, store.AnswerSubmitted{Correct: false})
	assert.Empty(t, updates)
	assert.Equal(t, 0, s.Session.CurrentStreak)
	assert.Equal(t, rewards.TierNone, s.Session.LastTierShown)

	s = answerAll(t, s, repeat(true, 4)...)
	assert.NotEmpty(t, s.LastAnswer.Streak.MessageToast)
	assert.Empty(t, s.LastAnswer.Streak.BadgeUnlocked)
	assert.False(t, s.LastAnswer.Streak.ShowBadgeAnimation)
	assert.Equal(t, []string{"Coup de Poing"}, s.Progress.StreakBadges)
	assert.Equal(t, 9, s.Session.Answered)
	assert.Equal(t, 8, s.Session.Correct)
	assert.Equal(t, 4, s.Session.BestStreak)
}

func TestReduce_RejectsActionsOutOfPhase(t *testing.T) {
	idle := emptyState()

	tests := []struct {
		name   string
		state  store.State
		action store.Action
		err    error
	}{
		{"answer while idle", idle, store.AnswerSubmitted{Correct: true}, store.ErrInvalidAction},
		{"complete while idle", idle, store.ChallengeCompleted{Now: wednesday(9)}, store.ErrInvalidAction},
		{"dismiss while idle", idle, store.RewardDismissed{}, store.ErrInvalidAction},
		{"review while idle", idle, store.ReviewRequested{Now: wednesday(9)}, store.ErrInvalidAction},
		{"start without questions", idle, store.StartChallenge{QuestionCount: 0}, store.ErrInvalidAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, updates, err := store.Reduce(tt.state, tt.action, firstPhrase)
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, updates)
			assert.Equal(t, tt.state.Phase, next.Phase)
		})
	}
}

func TestReduce_TooManyAnswers(t *testing.T) {
	s, _ := reduce(t, emptyState(), store.StartChallenge{QuestionCount: 1})
	s, _ = reduce(t, s, store.AnswerSubmitted{Correct: true})

	_, _, err := store.Reduce(s, store.AnswerSubmitted{Correct: true}, firstPhrase)
	assert.ErrorIs(t, err, store.ErrSessionComplete)
}

func TestReduce_CannotStartWhileRewardsShowing(t *testing.T) {
	s, _ := reduce(t, emptyState(), store.StartChallenge{QuestionCount: 1})
	s, _ = reduce(t, s, store.AnswerSubmitted{Correct: true})
	s, _ = reduce(t, s, store.ChallengeCompleted{Now: wednesday(14)})
	require.Equal(t, store.PhaseShowingRewards, s.Phase)

	next, _, err := store.Reduce(s, store.StartChallenge{QuestionCount: 5}, firstPhrase)
	assert.ErrorIs(t, err, store.ErrRewardsPending)
	assert.Equal(t, store.PhaseShowingRewards, next.Phase)
}

func TestReduce_ReviewSessionDoesNotCount(t *testing.T) {
	s := emptyState()
	s.Progress.TotalChallengesCompleted = 3
	s.Progress.PlayDates = []time.Time{wednesday(8)}

	s, _ = reduce(t, s, store.StartChallenge{QuestionCount: 1, IsReview: true})
	s, _ = reduce(t, s, store.AnswerSubmitted{Correct: true})
	s, updates := reduce(t, s, store.ChallengeCompleted{Now: wednesday(14)})

	assert.Empty(t, updates)
	assert.Equal(t, 3, s.Progress.TotalChallengesCompleted)
	assert.Len(t, s.Progress.PlayDates, 1)

	queue := s.Presentation.Result().Queue
	require.Len(t, queue, 1)
	assert.Equal(t, rewards.AchievementPerfectScore, queue[0].AchievementID)
}

func TestReduce_ReviewSessionOnThresholdEarnsNoBadge(t *testing.T) {
	s := emptyState()
	s.Progress.TotalChallengesCompleted = 4

	s, _ = reduce(t, s, store.StartChallenge{QuestionCount: 2, TimerEnabled: true, IsReview: true})
	s = answerAll(t, s, true, true)
	s, updates := reduce(t, s, store.ChallengeCompleted{Now: wednesday(14)})

	assert.Empty(t, updates)
	assert.Equal(t, 4, s.Progress.TotalChallengesCompleted)

	res := s.Presentation.Result()
	assert.Nil(t, res.NewBadge)
	for _, r := range res.Queue {
		assert.NotEqual(t, rewards.RewardLevelBadge, r.Type)
	}
	assert.Len(t, res.Queue, 2)
}

func TestReduce_ReviewRequestedDuringRewards(t *testing.T) {
	s, _ := reduce(t, emptyState(), store.StartChallenge{QuestionCount: 2})
	s = answerAll(t, s, true, true)
	s, _ = reduce(t, s, store.ChallengeCompleted{Now: wednesday(14)})
	require.Equal(t, 2, s.Presentation.Remaining())

	s, updates := reduce(t, s, store.ReviewRequested{Now: wednesday(14)})
	assert.Equal(t, store.PhaseShowingRewards, s.Phase)
	assert.True(t, s.Presentation.ReviewDeferred())
	require.NotNil(t, s.Strategist)
	assert.Equal(t, rewards.AchievementStrategist, s.Strategist.AchievementID)
	require.Len(t, updates, 1)
	assert.Equal(t, rewards.AchievementStrategist, updates[0].UpsertAchievements[0].ID)

	s, _ = reduce(t, s, store.RewardDismissed{})
	assert.Nil(t, s.Strategist)
	s, _ = reduce(t, s, store.RewardDismissed{})
	assert.Equal(t, store.PhaseReviewing, s.Phase)

	s, updates = reduce(t, s, store.ReviewRequested{Now: wednesday(15)})
	assert.Equal(t, store.PhaseReviewing, s.Phase)
	assert.Nil(t, s.Strategist, "strategist is awarded once")
	assert.Empty(t, updates)
}

func TestReduce_ReviewAfterFinished(t *testing.T) {
	s := emptyState()
	s.Progress.TotalChallengesCompleted = 1
	s.Progress.Badges = []models.UnlockedBadge{{ID: "space_1", Threshold: 1}}

	s, _ = reduce(t, s, store.StartChallenge{QuestionCount: 2})
	s = answerAll(t, s, true, false)
	s, _ = reduce(t, s, store.ChallengeCompleted{Now: wednesday(14)})
	require.Equal(t, store.PhaseFinished, s.Phase)

	s, _ = reduce(t, s, store.ReviewRequested{Now: wednesday(14)})
	assert.Equal(t, store.PhaseReviewing, s.Phase)
	assert.NotNil(t, s.Strategist)

	s, _ = reduce(t, s, store.StartChallenge{QuestionCount: 3})
	assert.Equal(t, store.PhasePlaying, s.Phase)
	assert.Equal(t, rewards.PresentationIdle, s.Presentation.State())
}

func TestReduce_RejectsActionsForReplacedSession(t *testing.T) {
	s, _ := reduce(t, emptyState(), store.StartChallenge{SessionID: 1, QuestionCount: 2})
	s, _ = reduce(t, s, store.AnswerSubmitted{SessionID: 1, Correct: true})
	s, _ = reduce(t, s, store.StartChallenge{SessionID: 2, QuestionCount: 2})

	stale := []store.Action{
		store.AnswerSubmitted{SessionID: 1, Correct: true},
		store.ChallengeCompleted{SessionID: 1, Now: wednesday(14)},
	}
	for _, a := range stale {
		next, updates, err := store.Reduce(s, a, firstPhrase)
		assert.ErrorIs(t, err, store.ErrSessionMismatch, store.ActionName(a))
		assert.Nil(t, updates)
		assert.Equal(t, 0, next.Session.Answered)
	}

	s, _ = reduce(t, s, store.AnswerSubmitted{SessionID: 2, Correct: true})
	s, _ = reduce(t, s, store.AnswerSubmitted{SessionID: 2, Correct: true})
	s, _ = reduce(t, s, store.ChallengeCompleted{SessionID: 2, Now: wednesday(14)})
	require.Equal(t, store.PhaseShowingRewards, s.Phase)

	_, _, err := store.Reduce(s, store.RewardDismissed{SessionID: 1}, firstPhrase)
	assert.ErrorIs(t, err, store.ErrSessionMismatch)
	_, _, err = store.Reduce(s, store.ReviewRequested{SessionID: 1, Now: wednesday(14)}, firstPhrase)
	assert.ErrorIs(t, err, store.ErrSessionMismatch)
}

func TestReduce_NearPerfectLongSessionIsNotPerfect(t *testing.T) {
	answers := append(repeat(true, 199), false)

	s, _ := reduce(t, emptyState(), store.StartChallenge{QuestionCount: 200})
	s = answerAll(t, s, answers...)
	s, _ = reduce(t, s, store.ChallengeCompleted{Now: wednesday(14)})

	assert.Equal(t, 99, s.Session.ScorePercent())
	assert.NotContains(t, achievementsIn(s.Presentation.Result().Queue), rewards.AchievementPerfectScore)
}

func achievementsIn(queue []rewards.QueuedReward) []string {
	var ids []string
	for _, r := range queue {
		ids = append(ids, r.AchievementID)
	}
	return ids
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s, _ := reduce(t, emptyState(), store.StartChallenge{QuestionCount: 4})
	s = answerAll(t, s, true, true, true)
	before := s.Clone()

	_, _ = reduce(t, s, store.AnswerSubmitted{Correct: true})
	assert.Equal(t, before, s)
}
