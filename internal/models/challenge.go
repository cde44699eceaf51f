package models

import (
	"math"
	"time"
)

type ChallengeSession struct {
	ID            int64      `json:"id"`
	Owner         Owner      `json:"owner"`
	QuestionCount int        `json:"question_count"`
	TimerEnabled  bool       `json:"timer_enabled"`
	IsReview      bool       `json:"is_review"`
	Answered      int        `json:"answered"`
	Correct       int        `json:"correct"`
	BestStreak    int        `json:"best_streak"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ScorePercent returns the rounded share of correct answers over the
// session's question count, in 0..100. Only a session with every answer
// correct reports 100.
func (s ChallengeSession) ScorePercent() int {
	if s.QuestionCount <= 0 {
		return 0
	}
	pct := int(math.Round(float64(s.Correct) * 100 / float64(s.QuestionCount)))
	switch {
	case s.Correct >= s.QuestionCount:
		pct = 100
	case pct >= 100:
		pct = 99
	}
	return pct
}

type ChallengeAnswer struct {
	ID           int64     `json:"id"`
	SessionID    int64     `json:"session_id"`
	Multiplicand int       `json:"multiplicand"`
	Multiplier   int       `json:"multiplier"`
	Given        int       `json:"given"`
	WasCorrect   bool      `json:"was_correct"`
	CreatedAt    time.Time `json:"created_at"`
}

// Expected returns the correct product for the question.
func (a ChallengeAnswer) Expected() int {
	return a.Multiplicand * a.Multiplier
}

type TableAccuracy struct {
	Table    int     `json:"table"`
	Answered int     `json:"answered"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

type ChallengeStats struct {
	Owner             Owner           `json:"owner"`
	Sessions          int             `json:"sessions"`
	PerfectSessions   int             `json:"perfect_sessions"`
	TimedSessions     int             `json:"timed_sessions"`
	QuestionsAnswered int             `json:"questions_answered"`
	CorrectAnswers    int             `json:"correct_answers"`
	Accuracy          float64         `json:"accuracy"`
	BestStreak        int             `json:"best_streak"`
	Tables            []TableAccuracy `json:"tables"`
	RefreshedAt       *time.Time      `json:"refreshed_at"`
}
