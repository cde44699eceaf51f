package store

import (
	"time"

	"github.com/vytor/timestables/internal/rewards"
)

// Action is something that happened in the challenge flow.
type Action interface {
	actionName() string
}

// StartChallenge begins a new session. Any unfinished session is abandoned.
type StartChallenge struct {
	SessionID     int64
	QuestionCount int
	TimerEnabled  bool
	IsReview      bool
	Theme         rewards.Theme
	Gender        rewards.Gender
}

// The remaining actions name the session they target. The reducer rejects
// them with ErrSessionMismatch once another session has started.

type AnswerSubmitted struct {
	SessionID int64
	Correct   bool
}

// ChallengeCompleted ends the session and evaluates its rewards at Now.
type ChallengeCompleted struct {
	SessionID int64
	Now       time.Time
}

// RewardDismissed closes the reward on screen and commits it.
type RewardDismissed struct {
	SessionID int64
}

// ReviewRequested asks to review the wrong answers of the finished session.
type ReviewRequested struct {
	SessionID int64
	Now       time.Time
}

func (StartChallenge) actionName() string     { return "start_challenge" }
func (AnswerSubmitted) actionName() string    { return "answer_submitted" }
func (ChallengeCompleted) actionName() string { return "challenge_completed" }
func (RewardDismissed) actionName() string    { return "reward_dismissed" }
func (ReviewRequested) actionName() string    { return "review_requested" }

// ActionName returns the log name of a.
func ActionName(a Action) string {
	if a == nil {
		return "<nil>"
	}
	return a.actionName()
}
