package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/rewards"
)

var (
	// ErrInvalidAction is returned when an action does not fit the current phase.
	ErrInvalidAction = errors.New("invalid action")
	// ErrRewardsPending is returned when a challenge is started while rewards are still on screen.
	ErrRewardsPending = errors.New("rewards are still being shown")
	// ErrSessionComplete is returned when more answers arrive than the session has questions.
	ErrSessionComplete = errors.New("all questions already answered")
	// ErrSessionMismatch is returned when an action targets a session that is no longer current.
	ErrSessionMismatch = errors.New("session is no longer current")
)

// Reduce computes the state that follows a and the progress writes it
// implies, in the order they must be applied. It does no I/O; the returned
// state already reflects the writes. On error s is returned unchanged.
func Reduce(s State, a Action, pick rewards.Picker) (State, []models.ProgressUpdate, error) {
	next := s.Clone()
	next.LastAnswer = nil
	next.Strategist = nil

	var (
		updates []models.ProgressUpdate
		err     error
	)
	switch act := a.(type) {
	case StartChallenge:
		err = startChallenge(&next, act)
	case AnswerSubmitted:
		updates, err = answerSubmitted(&next, act, pick)
	case ChallengeCompleted:
		updates, err = challengeCompleted(&next, act)
	case RewardDismissed:
		updates, err = rewardDismissed(&next, act)
	case ReviewRequested:
		updates, err = reviewRequested(&next, act)
	default:
		err = fmt.Errorf("%w: unknown action %T", ErrInvalidAction, a)
	}
	if err != nil {
		return s, nil, err
	}
	for _, u := range updates {
		next.Progress = next.Progress.Apply(u)
	}
	return next, updates, nil
}

func invalid(a Action, phase Phase) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidAction, ActionName(a), phase)
}

func checkSession(s *State, id int64) error {
	if s.Session == nil || s.Session.ID != id {
		return fmt.Errorf("%w: %d", ErrSessionMismatch, id)
	}
	return nil
}

func startChallenge(s *State, act StartChallenge) error {
	if s.Phase == PhaseShowingRewards {
		return ErrRewardsPending
	}
	if act.QuestionCount <= 0 {
		return fmt.Errorf("%w: question count must be positive", ErrInvalidAction)
	}
	s.Session = &Session{
		ID:            act.SessionID,
		QuestionCount: act.QuestionCount,
		TimerEnabled:  act.TimerEnabled,
		IsReview:      act.IsReview,
		LastTierShown: rewards.TierNone,
		Theme:         act.Theme,
		Gender:        act.Gender,
	}
	s.Presentation = rewards.Presentation{}
	s.Phase = PhasePlaying
	return nil
}

func answerSubmitted(s *State, act AnswerSubmitted, pick rewards.Picker) ([]models.ProgressUpdate, error) {
	if s.Phase != PhasePlaying {
		return nil, invalid(act, s.Phase)
	}
	if err := checkSession(s, act.SessionID); err != nil {
		return nil, err
	}
	sess := *s.Session
	if sess.Answered >= sess.QuestionCount {
		return nil, ErrSessionComplete
	}

	res := rewards.ProcessStreak(rewards.StreakInput{
		Correct:       act.Correct,
		CurrentStreak: sess.CurrentStreak,
		BestStreak:    sess.BestStreak,
		QuestionCount: sess.QuestionCount,
		UserBadges:    s.Progress.StreakBadges,
		LastTierShown: sess.LastTierShown,
		Theme:         sess.Theme,
	}, pick)

	sess.Answered++
	if act.Correct {
		sess.Correct++
	}
	sess.CurrentStreak = res.CurrentStreak
	sess.BestStreak = res.BestStreak
	sess.LastTierShown = res.LastTierShown
	if !act.Correct {
		// a broken streak may announce its tiers again
		sess.LastTierShown = rewards.TierNone
	}
	s.Session = &sess
	s.LastAnswer = &AnswerFeedback{Correct: act.Correct, Streak: res}

	var u models.ProgressUpdate
	if res.BadgeUnlocked != "" {
		u.AddStreakBadges = []string{res.BadgeUnlocked}
	}
	if res.BestStreak > s.Progress.BestStreak {
		best := res.BestStreak
		u.BestStreak = &best
	}
	if u.IsEmpty() {
		return nil, nil
	}
	return []models.ProgressUpdate{u}, nil
}

func challengeCompleted(s *State, act ChallengeCompleted) ([]models.ProgressUpdate, error) {
	if s.Phase != PhasePlaying {
		return nil, invalid(act, s.Phase)
	}
	if err := checkSession(s, act.SessionID); err != nil {
		return nil, err
	}
	sess := s.Session
	now := act.Now
	if now.IsZero() {
		now = time.Now()
	}

	total := s.Progress.TotalChallengesCompleted
	var updates []models.ProgressUpdate
	if !sess.IsReview {
		total++
		updates = append(updates, models.ProgressUpdate{
			TotalChallengesCompleted: &total,
			AddPlayDates:             []time.Time{now},
		})
	}

	result := rewards.CheckForRewards(rewards.ChallengeContext{
		TotalChallengesCompleted: total,
		Theme:                    sess.Theme,
		ExistingBadges:           s.Progress.Badges,
		ExistingAchievements:     s.Progress.Achievements,
		PlayDates:                s.Progress.PlayDates,
		Gender:                   sess.Gender,
		TimerEnabled:             sess.TimerEnabled,
		ScorePercent:             sess.ScorePercent(),
		IsReviewSession:          sess.IsReview,
	}, now)

	s.Presentation = rewards.NewPresentation(result)
	s.Phase = phaseFor(s.Presentation)
	return updates, nil
}

func rewardDismissed(s *State, act RewardDismissed) ([]models.ProgressUpdate, error) {
	if s.Phase != PhaseShowingRewards {
		return nil, invalid(act, s.Phase)
	}
	if err := checkSession(s, act.SessionID); err != nil {
		return nil, err
	}
	pres, commit := s.Presentation.Dismiss()
	s.Presentation = pres
	s.Phase = phaseFor(pres)
	if commit == nil {
		return nil, nil
	}
	return []models.ProgressUpdate{commit.Update()}, nil
}

func reviewRequested(s *State, act ReviewRequested) ([]models.ProgressUpdate, error) {
	if s.Phase != PhaseIdle {
		if err := checkSession(s, act.SessionID); err != nil {
			return nil, err
		}
	}
	switch s.Phase {
	case PhaseShowingRewards:
		s.Presentation = s.Presentation.DeferReview()
	case PhaseFinished, PhaseReviewing:
		s.Phase = PhaseReviewing
	default:
		return nil, invalid(act, s.Phase)
	}

	now := act.Now
	if now.IsZero() {
		now = time.Now()
	}
	reward, rec, ok := rewards.CheckStrategistAchievement(s.Progress.Achievements, now)
	if !ok {
		return nil, nil
	}
	s.Strategist = &reward
	return []models.ProgressUpdate{{UpsertAchievements: []models.UnlockedAchievement{rec}}}, nil
}

func phaseFor(p rewards.Presentation) Phase {
	switch p.State() {
	case rewards.PresentationShowing:
		return PhaseShowingRewards
	case rewards.PresentationReviewing:
		return PhaseReviewing
	case rewards.PresentationFinished:
		return PhaseFinished
	default:
		return PhaseIdle
	}
}
