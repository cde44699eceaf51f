package api

import (
	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/rewards"
	"github.com/vytor/timestables/internal/services"
	"github.com/vytor/timestables/internal/store"
)

type sessionView struct {
	ID            int64        `json:"id"`
	QuestionCount int          `json:"question_count"`
	TimerEnabled  bool         `json:"timer_enabled"`
	IsReview      bool         `json:"is_review"`
	Answered      int          `json:"answered"`
	Correct       int          `json:"correct"`
	ScorePercent  int          `json:"score_percent"`
	CurrentStreak int          `json:"current_streak"`
	BestStreak    int          `json:"best_streak"`
	LastTierShown rewards.Tier `json:"last_tier_shown"`
	Theme         string       `json:"theme"`
	Gender        string       `json:"gender,omitempty"`
}

type lastAnswerView struct {
	Correct bool                 `json:"correct"`
	Streak  rewards.StreakResult `json:"streak"`
}

// stateView is the reward flow as the client renders it.
type stateView struct {
	Owner            models.Owner          `json:"owner"`
	Phase            store.Phase           `json:"phase"`
	Session          *sessionView          `json:"session"`
	CurrentReward    *rewards.QueuedReward `json:"current_reward"`
	RemainingRewards int                   `json:"remaining_rewards"`
	ReviewDeferred   bool                  `json:"review_deferred"`
	LastAnswer       *lastAnswerView       `json:"last_answer,omitempty"`
	Strategist       *rewards.QueuedReward `json:"strategist,omitempty"`
}

func newStateView(st store.State) stateView {
	v := stateView{
		Owner:            st.Owner,
		Phase:            st.Phase,
		RemainingRewards: st.Presentation.Remaining(),
		ReviewDeferred:   st.Presentation.ReviewDeferred(),
		Strategist:       st.Strategist,
	}
	if sess := st.Session; sess != nil {
		v.Session = &sessionView{
			ID:            sess.ID,
			QuestionCount: sess.QuestionCount,
			TimerEnabled:  sess.TimerEnabled,
			IsReview:      sess.IsReview,
			Answered:      sess.Answered,
			Correct:       sess.Correct,
			ScorePercent:  sess.ScorePercent(),
			CurrentStreak: sess.CurrentStreak,
			BestStreak:    sess.BestStreak,
			LastTierShown: sess.LastTierShown,
			Theme:         sess.Theme.String(),
			Gender:        sess.Gender.String(),
		}
	}
	if reward, ok := st.Presentation.Current(); ok {
		v.CurrentReward = &reward
	}
	if st.LastAnswer != nil {
		v.LastAnswer = &lastAnswerView{Correct: st.LastAnswer.Correct, Streak: st.LastAnswer.Streak}
	}
	return v
}

type startChallengeResponse struct {
	Challenge *models.ChallengeSession `json:"challenge"`
	State     stateView                `json:"state"`
}

type answerResponse struct {
	Correct  bool                 `json:"correct"`
	Expected int                  `json:"expected"`
	Streak   rewards.StreakResult `json:"streak"`
	State    stateView            `json:"state"`
}

type reviewResponse struct {
	WrongAnswers []models.ChallengeAnswer `json:"wrong_answers"`
	Strategist   *rewards.QueuedReward    `json:"strategist"`
	Deferred     bool                     `json:"deferred"`
	State        stateView                `json:"state"`
}

type progressResponse struct {
	Progress  models.Progress        `json:"progress"`
	Theme     string                 `json:"theme"`
	Gender    string                 `json:"gender,omitempty"`
	NextBadge *rewards.NextBadgeInfo `json:"next_badge"`
	MaxLevel  bool                   `json:"max_level"`
}

func newProgressResponse(p *services.ProgressView) progressResponse {
	return progressResponse{
		Progress:  p.Progress,
		Theme:     p.Theme.String(),
		Gender:    p.Gender.String(),
		NextBadge: p.NextBadge,
		MaxLevel:  p.NextBadge == nil,
	}
}

type badgeView struct {
	ID        string `json:"id"`
	Threshold int    `json:"threshold"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Icon      string `json:"icon"`
	Gendered  bool   `json:"gendered"`
}

type badgeCatalogResponse struct {
	Theme  string      `json:"theme"`
	Gender string      `json:"gender,omitempty"`
	Badges []badgeView `json:"badges"`
}

func newBadgeCatalog(theme rewards.Theme, gender rewards.Gender) badgeCatalogResponse {
	defs := rewards.Badges(theme)
	out := badgeCatalogResponse{
		Theme:  theme.String(),
		Gender: gender.String(),
		Badges: make([]badgeView, 0, len(defs)),
	}
	for _, b := range defs {
		out.Badges = append(out.Badges, badgeView{
			ID:        rewards.BadgeID(theme, b.Threshold),
			Threshold: b.Threshold,
			Title:     b.Title,
			Message:   b.Message,
			Icon:      rewards.BadgeIcon(b, gender),
			Gendered:  b.Icon.IsGendered(),
		})
	}
	return out
}
