package store

import (
	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/rewards"
)

// Phase is where the owner is in the challenge flow.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlaying
	PhaseShowingRewards
	PhaseFinished
	PhaseReviewing
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseShowingRewards:
		return "showing_rewards"
	case PhaseFinished:
		return "finished"
	case PhaseReviewing:
		return "reviewing"
	default:
		return "idle"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Session is the runtime of the challenge being played.
type Session struct {
	ID            int64
	QuestionCount int
	TimerEnabled  bool
	IsReview      bool
	Answered      int
	Correct       int
	CurrentStreak int
	BestStreak    int
	LastTierShown rewards.Tier
	Theme         rewards.Theme
	Gender        rewards.Gender
}

// ScorePercent is the rounded share of correct answers, 0..100.
func (s Session) ScorePercent() int {
	return models.ChallengeSession{QuestionCount: s.QuestionCount, Correct: s.Correct}.ScorePercent()
}

// AnswerFeedback is the streak outcome of the last answer.
type AnswerFeedback struct {
	Correct bool
	Streak  rewards.StreakResult
}

// State is one owner's reward state. Values handed out by the store are
// copies and may be kept or mutated by the caller.
type State struct {
	Owner        models.Owner
	Progress     models.Progress
	Phase        Phase
	Session      *Session
	Presentation rewards.Presentation
	LastAnswer   *AnswerFeedback
	Strategist   *rewards.QueuedReward
}

func (s State) Clone() State {
	out := s
	out.Progress = s.Progress.Clone()
	if s.Session != nil {
		sess := *s.Session
		out.Session = &sess
	}
	if s.LastAnswer != nil {
		la := *s.LastAnswer
		la.Streak.UserBadges = append([]string(nil), s.LastAnswer.Streak.UserBadges...)
		out.LastAnswer = &la
	}
	if s.Strategist != nil {
		r := *s.Strategist
		out.Strategist = &r
	}
	return out
}
